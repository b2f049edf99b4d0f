package zabbix

// Copyright (C) 2025 Rizome Labs, Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; either version 2
// of the License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program; if not, write to the Free Software
// Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

import (
	"context"
)

// Hosts returns all hosts with their interfaces.
func (c *Client) Hosts(ctx context.Context) ([]Host, error) {
	var hosts []Host
	err := c.CallInto(ctx, "host.get", map[string]any{
		"output":           "extend",
		"selectInterfaces": "extend",
	}, &hosts)
	return hosts, err
}

// HostByName looks a host up by its internal hostname. Zero matches is a
// not-found error.
func (c *Client) HostByName(ctx context.Context, hostname string) (*Host, error) {
	var hosts []Host
	err := c.CallInto(ctx, "host.get", map[string]any{
		"output":                "extend",
		"filter":                map[string]any{"host": hostname},
		"selectInterfaces":      "extend",
		"selectParentTemplates": "extend",
	}, &hosts)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, NewError(KindNotFound, "host %q not found", hostname)
	}
	return &hosts[0], nil
}

// HostInterfaces returns the polling interfaces of one host.
func (c *Client) HostInterfaces(ctx context.Context, hostID string) ([]Interface, error) {
	var interfaces []Interface
	err := c.CallInto(ctx, "hostinterface.get", map[string]any{
		"output":  "extend",
		"hostids": hostID,
	}, &interfaces)
	return interfaces, err
}

// Triggers returns triggers with their current state, newest definitions
// first. A limit of zero fetches everything.
func (c *Client) Triggers(ctx context.Context, limit int) ([]Trigger, error) {
	params := map[string]any{
		"output":      "extend",
		"selectHosts": "extend",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var triggers []Trigger
	err := c.CallInto(ctx, "trigger.get", params, &triggers)
	return triggers, err
}

// Problems returns unresolved problems, newest first. A limit of zero
// fetches everything.
func (c *Client) Problems(ctx context.Context, limit int) ([]Problem, error) {
	params := map[string]any{
		"output":    "extend",
		"recent":    true,
		"sortfield": "eventid",
		"sortorder": "DESC",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var problems []Problem
	err := c.CallInto(ctx, "problem.get", params, &problems)
	return problems, err
}

// Events returns the most recent events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	params := map[string]any{
		"output":      "extend",
		"sortfield":   "clock",
		"sortorder":   "DESC",
		"selectHosts": "extend",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var events []Event
	err := c.CallInto(ctx, "event.get", params, &events)
	return events, err
}

// AcknowledgeEvent acknowledges a problem event with an optional message.
func (c *Client) AcknowledgeEvent(ctx context.Context, eventIDs []string, message string) error {
	_, err := c.Call(ctx, "event.acknowledge", map[string]any{
		"eventids": eventIDs,
		"action":   1,
		"message":  message,
	})
	return err
}

// Items returns monitored items, scoped to one host when hostID is set.
func (c *Client) Items(ctx context.Context, hostID string) ([]Item, error) {
	params := map[string]any{
		"output":      "extend",
		"selectHosts": "extend",
	}
	if hostID != "" {
		params["hostids"] = hostID
	}
	var items []Item
	err := c.CallInto(ctx, "item.get", params, &items)
	return items, err
}

// History returns the most recent recorded values of one item.
func (c *Client) History(ctx context.Context, itemID string, limit int) ([]HistoryValue, error) {
	params := map[string]any{
		"output":    "extend",
		"itemids":   itemID,
		"sortfield": "clock",
		"sortorder": "DESC",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var values []HistoryValue
	err := c.CallInto(ctx, "history.get", params, &values)
	return values, err
}

// HostGroups returns all host groups.
func (c *Client) HostGroups(ctx context.Context) ([]HostGroup, error) {
	var groups []HostGroup
	err := c.CallInto(ctx, "hostgroup.get", map[string]any{"output": "extend"}, &groups)
	return groups, err
}

// Templates returns all templates.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var templates []Template
	err := c.CallInto(ctx, "template.get", map[string]any{"output": "extend"}, &templates)
	return templates, err
}

// TemplateByName looks a template up by its technical name. Zero matches is
// a not-found error.
func (c *Client) TemplateByName(ctx context.Context, name string) (*Template, error) {
	var templates []Template
	err := c.CallInto(ctx, "template.get", map[string]any{
		"output": "extend",
		"filter": map[string]any{"host": name},
	}, &templates)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, NewError(KindNotFound, "template %q not found", name)
	}
	return &templates[0], nil
}

// LinkTemplate appends a template link to a host, keeping every template
// already linked. Linking an already linked template is a no-op.
func (c *Client) LinkTemplate(ctx context.Context, hostID, templateID string) error {
	var hosts []Host
	err := c.CallInto(ctx, "host.get", map[string]any{
		"output":                "extend",
		"hostids":               hostID,
		"selectParentTemplates": "extend",
	}, &hosts)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return NewError(KindNotFound, "host with ID %s not found", hostID)
	}

	templates := make([]map[string]string, 0, len(hosts[0].ParentTemplates)+1)
	for _, t := range hosts[0].ParentTemplates {
		if t.TemplateID == templateID {
			c.logger.Warn("template already linked", "hostid", hostID, "templateid", templateID)
			return nil
		}
		templates = append(templates, map[string]string{"templateid": t.TemplateID})
	}
	templates = append(templates, map[string]string{"templateid": templateID})

	_, err = c.Call(ctx, "host.update", map[string]any{
		"hostid":    hostID,
		"templates": templates,
	})
	return err
}

// LinkTemplateByNames resolves both names to IDs and links the template.
func (c *Client) LinkTemplateByNames(ctx context.Context, hostname, templateName string) error {
	host, err := c.HostByName(ctx, hostname)
	if err != nil {
		return err
	}
	template, err := c.TemplateByName(ctx, templateName)
	if err != nil {
		return err
	}
	return c.LinkTemplate(ctx, host.HostID, template.TemplateID)
}
