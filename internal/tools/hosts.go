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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// listCap bounds how many entries a text summary enumerates before
// truncating; the structured payload always carries everything.
const listCap = 20

type GetHostsArgs struct{}

func (h *handlers) getHosts(ctx context.Context, req *mcp.CallToolRequest, args GetHostsArgs) (*mcp.CallToolResult, any, error) {
	hosts, err := h.api.Hosts(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(hosts) == 0 {
		return textResult("No hosts found"), map[string]any{"total": 0, "hosts": hosts}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d hosts:\n\n", len(hosts))
	for _, host := range truncate(hosts) {
		fmt.Fprintf(&b, "- %s (%s): %s\n", host.Name, host.Host, zabbix.HostStatusText(host.Status))
	}
	if len(hosts) > listCap {
		fmt.Fprintf(&b, "\n... and %d more hosts", len(hosts)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(hosts), "hosts": hosts}, nil
}

type GetHostDetailsArgs struct {
	Hostname string `json:"hostname" jsonschema:"Internal host name to look up" validate:"required"`
}

func (h *handlers) getHostDetails(ctx context.Context, req *mcp.CallToolRequest, args GetHostDetailsArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	host, err := h.api.HostByName(ctx, args.Hostname)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Host details: %s\n\n", host.Name)
	fmt.Fprintf(&b, "Host ID: %s\n", host.HostID)
	fmt.Fprintf(&b, "Status: %s\n", zabbix.HostStatusText(host.Status))
	if len(host.Interfaces) > 0 {
		fmt.Fprintf(&b, "\nInterfaces (%d):\n", len(host.Interfaces))
		for _, iface := range host.Interfaces {
			fmt.Fprintf(&b, "  - %s:%s (%s)\n", iface.IP, iface.Port, zabbix.AvailabilityText(iface.Available))
		}
	}
	if len(host.ParentTemplates) > 0 {
		fmt.Fprintf(&b, "\nTemplates (%d):\n", len(host.ParentTemplates))
		for _, tpl := range host.ParentTemplates {
			fmt.Fprintf(&b, "  - %s\n", tpl.Name)
		}
	}

	return textResult("%s", b.String()), host, nil
}

type CreateHostArgs struct {
	Hostname    string `json:"hostname" jsonschema:"Internal hostname identifier (e.g. 'my-server')" validate:"required"`
	DisplayName string `json:"display_name" jsonschema:"Display name shown in the Zabbix frontend" validate:"required"`
	IPAddress   string `json:"ip_address" jsonschema:"IP address for agent polling (e.g. 10.0.0.5)" validate:"required,ip"`
	Port        string `json:"port,omitempty" jsonschema:"Agent port (default 10050)" validate:"omitempty,numeric"`
	GroupID     string `json:"group_id,omitempty" jsonschema:"Host group ID (default 2, 'Linux servers')" validate:"omitempty,numeric"`
	TemplateID  string `json:"template_id,omitempty" jsonschema:"Template ID to auto-link (default 10001, 'Linux by Zabbix agent')" validate:"omitempty,numeric"`
}

// createHost performs the three-step provisioning the Zabbix API expects:
// create the host in a group, attach the primary agent interface, then link
// the monitoring template.
func (h *handlers) createHost(ctx context.Context, req *mcp.CallToolRequest, args CreateHostArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	port := defaultString(args.Port, "10050")
	groupID := defaultString(args.GroupID, "2")
	templateID := defaultString(args.TemplateID, "10001")

	raw, err := h.api.Call(ctx, "host.create", map[string]any{
		"host":   args.Hostname,
		"name":   args.DisplayName,
		"groups": []map[string]string{{"groupid": groupID}},
	})
	if err != nil {
		return nil, nil, err
	}
	hostID, err := firstID(raw, "hostids")
	if err != nil {
		return nil, nil, zabbix.WrapError(zabbix.KindAPI, err, "host.create returned no host ID")
	}

	raw, err = h.api.Call(ctx, "hostinterface.create", map[string]any{
		"hostid": hostID,
		"type":   1, // agent
		"main":   1, // primary
		"useip":  1,
		"ip":     args.IPAddress,
		"dns":    "",
		"port":   port,
	})
	if err != nil {
		return nil, nil, zabbix.WrapError(zabbix.KindAPI, err,
			"host created (ID %s) but interface creation failed", hostID)
	}
	interfaceID, err := firstID(raw, "interfaceids")
	if err != nil {
		return nil, nil, zabbix.WrapError(zabbix.KindAPI, err, "hostinterface.create returned no interface ID")
	}

	if _, err := h.api.Call(ctx, "host.update", map[string]any{
		"hostid":    hostID,
		"templates": []map[string]string{{"templateid": templateID}},
	}); err != nil {
		return nil, nil, zabbix.WrapError(zabbix.KindAPI, err,
			"host created (ID %s) but template linking failed", hostID)
	}

	summary := fmt.Sprintf(`Host created successfully.

Hostname: %s
Display: %s
Address: %s:%s
Host ID: %s
Interface ID: %s
Template: %s

Next: wait 30-60 seconds for the agent to start reporting metrics.`,
		args.Hostname, args.DisplayName, args.IPAddress, port, hostID, interfaceID, templateID)

	return textResult("%s", summary), map[string]any{
		"hostid":      hostID,
		"interfaceid": interfaceID,
		"templateid":  templateID,
	}, nil
}

type AddHostInterfaceArgs struct {
	HostID        string `json:"hostid" jsonschema:"Host ID" validate:"required,numeric"`
	IPAddress     string `json:"ip_address" jsonschema:"IP address for polling" validate:"required,ip"`
	Port          string `json:"port,omitempty" jsonschema:"Agent port (default 10050)" validate:"omitempty,numeric"`
	InterfaceType string `json:"interface_type,omitempty" jsonschema:"Interface type: 1=Agent (default), 2=SNMP, 3=IPMI, 4=JMX" validate:"omitempty,oneof=1 2 3 4"`
}

func (h *handlers) addHostInterface(ctx context.Context, req *mcp.CallToolRequest, args AddHostInterfaceArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	port := defaultString(args.Port, "10050")
	interfaceType := defaultString(args.InterfaceType, "1")

	raw, err := h.api.Call(ctx, "hostinterface.create", map[string]any{
		"hostid": args.HostID,
		"type":   interfaceType,
		"main":   1,
		"useip":  1,
		"ip":     args.IPAddress,
		"dns":    "",
		"port":   port,
	})
	if err != nil {
		return nil, nil, err
	}
	interfaceID, err := firstID(raw, "interfaceids")
	if err != nil {
		return nil, nil, zabbix.WrapError(zabbix.KindAPI, err, "hostinterface.create returned no interface ID")
	}

	summary := fmt.Sprintf(`Interface added.

Interface ID: %s
Address: %s:%s
Host ID: %s

Next: wait for the Zabbix server to poll the interface (30-60 seconds).`,
		interfaceID, args.IPAddress, port, args.HostID)

	return textResult("%s", summary), map[string]any{"interfaceid": interfaceID}, nil
}

type CheckInterfaceArgs struct {
	HostID string `json:"hostid" jsonschema:"Host ID" validate:"required,numeric"`
}

func (h *handlers) checkInterfaceAvailability(ctx context.Context, req *mcp.CallToolRequest, args CheckInterfaceArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	interfaces, err := h.api.HostInterfaces(ctx, args.HostID)
	if err != nil {
		return nil, nil, err
	}
	if len(interfaces) == 0 {
		return nil, nil, zabbix.NewError(zabbix.KindNotFound, "host %s has no interfaces", args.HostID)
	}

	primary := interfaces[0]
	for _, iface := range interfaces {
		if iface.Main == "1" {
			primary = iface
			break
		}
	}
	status := zabbix.AvailabilityText(primary.Available)

	var b strings.Builder
	fmt.Fprintf(&b, "Host interface status: %s\n", strings.ToUpper(status))
	fmt.Fprintf(&b, "Host ID: %s\n", args.HostID)
	fmt.Fprintf(&b, "Interfaces:\n")
	for _, iface := range interfaces {
		fmt.Fprintf(&b, "  - %s:%s (%s)\n", iface.IP, iface.Port, zabbix.AvailabilityText(iface.Available))
	}

	return textResult("%s", b.String()), map[string]any{
		"hostid":     args.HostID,
		"status":     status,
		"available":  primary.Available,
		"interfaces": interfaces,
	}, nil
}

// firstID pulls the first generated ID out of a Zabbix create/update result
// such as {"hostids": ["10105"]}.
func firstID(raw json.RawMessage, field string) (string, error) {
	var result map[string][]string
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	ids := result[field]
	if len(ids) == 0 {
		return "", fmt.Errorf("response has no %s", field)
	}
	return ids[0], nil
}

// truncate caps a slice for text summaries.
func truncate[T any](s []T) []T {
	if len(s) > listCap {
		return s[:listCap]
	}
	return s
}
