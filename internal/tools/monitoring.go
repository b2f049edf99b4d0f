package tools

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
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

const (
	defaultProblemLimit = 50
	defaultTriggerLimit = 50
	defaultEventLimit   = 20
	defaultHistoryLimit = 100
)

type GetProblemsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 50)" validate:"omitempty,min=1"`
}

func (h *handlers) getProblems(ctx context.Context, req *mcp.CallToolRequest, args GetProblemsArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	problems, err := h.api.Problems(ctx, defaultLimit(args.Limit, defaultProblemLimit))
	if err != nil {
		return nil, nil, err
	}
	if len(problems) == 0 {
		return textResult("No active problems"), map[string]any{"total": 0, "problems": problems}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active problems: %d\n\n", len(problems))
	for _, problem := range truncate(problems) {
		fmt.Fprintf(&b, "- %s [%s] - %s\n", problem.Name, clockText(problem.Clock), hostNames(problem.Hosts))
	}
	if len(problems) > listCap {
		fmt.Fprintf(&b, "\n... and %d more", len(problems)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(problems), "problems": problems}, nil
}

type GetTriggersArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 50)" validate:"omitempty,min=1"`
}

func (h *handlers) getTriggers(ctx context.Context, req *mcp.CallToolRequest, args GetTriggersArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	triggers, err := h.api.Triggers(ctx, defaultLimit(args.Limit, defaultTriggerLimit))
	if err != nil {
		return nil, nil, err
	}
	if len(triggers) == 0 {
		return textResult("No triggers found"), map[string]any{"total": 0, "triggers": triggers}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d triggers:\n\n", len(triggers))
	for _, trigger := range truncate(triggers) {
		fmt.Fprintf(&b, "- %s: %s\n", zabbix.TriggerValueText(trigger.Value), trigger.Description)
	}
	if len(triggers) > listCap {
		fmt.Fprintf(&b, "\n... and %d more", len(triggers)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(triggers), "triggers": triggers}, nil
}

type GetEventsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)" validate:"omitempty,min=1"`
}

func (h *handlers) getEvents(ctx context.Context, req *mcp.CallToolRequest, args GetEventsArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	events, err := h.api.Events(ctx, defaultLimit(args.Limit, defaultEventLimit))
	if err != nil {
		return nil, nil, err
	}
	if len(events) == 0 {
		return textResult("No events found"), map[string]any{"total": 0, "events": events}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent events (%d):\n\n", len(events))
	for _, event := range truncate(events) {
		fmt.Fprintf(&b, "- %s - %s - %s\n", clockText(event.Clock), event.Name, hostNames(event.Hosts))
	}
	if len(events) > listCap {
		fmt.Fprintf(&b, "\n... and %d more", len(events)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(events), "events": events}, nil
}

type AcknowledgeEventArgs struct {
	EventID string `json:"eventid" jsonschema:"Event ID to acknowledge" validate:"required,numeric"`
	Message string `json:"message,omitempty" jsonschema:"Optional acknowledgement message"`
}

func (h *handlers) acknowledgeEvent(ctx context.Context, req *mcp.CallToolRequest, args AcknowledgeEventArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	if err := h.api.AcknowledgeEvent(ctx, []string{args.EventID}, args.Message); err != nil {
		return nil, nil, err
	}

	return textResult("Event %s acknowledged", args.EventID),
		map[string]any{"eventid": args.EventID, "acknowledged": true}, nil
}

type GetItemsArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"Limit items to one host by name"`
}

func (h *handlers) getItems(ctx context.Context, req *mcp.CallToolRequest, args GetItemsArgs) (*mcp.CallToolResult, any, error) {
	hostID := ""
	if args.Hostname != "" {
		host, err := h.api.HostByName(ctx, args.Hostname)
		if err != nil {
			return nil, nil, err
		}
		hostID = host.HostID
	}

	items, err := h.api.Items(ctx, hostID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return textResult("No items found"), map[string]any{"total": 0, "items": items}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Monitored items: %d\n\n", len(items))
	for _, item := range truncate(items) {
		fmt.Fprintf(&b, "- %s (%s)", item.Name, item.Key)
		if item.LastValue != "" {
			fmt.Fprintf(&b, " = %s%s", item.LastValue, item.Units)
		}
		b.WriteString("\n")
	}
	if len(items) > listCap {
		fmt.Fprintf(&b, "\n... and %d more", len(items)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(items), "items": items}, nil
}

type GetItemHistoryArgs struct {
	ItemID string `json:"itemid" jsonschema:"Item ID" validate:"required,numeric"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max values (default 100)" validate:"omitempty,min=1"`
}

func (h *handlers) getItemHistory(ctx context.Context, req *mcp.CallToolRequest, args GetItemHistoryArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	values, err := h.api.History(ctx, args.ItemID, defaultLimit(args.Limit, defaultHistoryLimit))
	if err != nil {
		return nil, nil, err
	}
	if len(values) == 0 {
		return textResult("No history for item %s", args.ItemID),
			map[string]any{"total": 0, "values": values}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "History for item %s (%d values):\n\n", args.ItemID, len(values))
	for _, value := range truncate(values) {
		fmt.Fprintf(&b, "- %s: %s\n", clockText(value.Clock), value.Value)
	}
	if len(values) > listCap {
		fmt.Fprintf(&b, "\n... and %d more", len(values)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(values), "values": values}, nil
}

type GetSystemStatusArgs struct{}

// getSystemStatus aggregates host, problem and trigger counts into one
// summary. Problems and triggers are fetched unbounded so the counts are
// exact, not capped by a list limit.
func (h *handlers) getSystemStatus(ctx context.Context, req *mcp.CallToolRequest, args GetSystemStatusArgs) (*mcp.CallToolResult, any, error) {
	hosts, err := h.api.Hosts(ctx)
	if err != nil {
		return nil, nil, err
	}
	problems, err := h.api.Problems(ctx, 0)
	if err != nil {
		return nil, nil, err
	}
	triggers, err := h.api.Triggers(ctx, 0)
	if err != nil {
		return nil, nil, err
	}

	enabledHosts := 0
	for _, host := range hosts {
		if host.Status == "0" {
			enabledHosts++
		}
	}
	problemTriggers := 0
	for _, trigger := range triggers {
		if trigger.Value == "1" {
			problemTriggers++
		}
	}

	summary := fmt.Sprintf(`Zabbix system status

Total hosts: %d (%d enabled)
Active problems: %d
Total triggers: %d
Problem triggers: %d`,
		len(hosts), enabledHosts, len(problems), len(triggers), problemTriggers)

	return textResult("%s", summary), map[string]any{
		"hosts":            len(hosts),
		"enabled_hosts":    enabledHosts,
		"problems":         len(problems),
		"triggers":         len(triggers),
		"problem_triggers": problemTriggers,
	}, nil
}
