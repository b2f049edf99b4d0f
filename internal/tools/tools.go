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
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// API is the slice of the Zabbix client the tool handlers depend on.
// *zabbix.Client satisfies it; tests substitute a recording fake.
type API interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)

	Hosts(ctx context.Context) ([]zabbix.Host, error)
	HostByName(ctx context.Context, hostname string) (*zabbix.Host, error)
	HostInterfaces(ctx context.Context, hostID string) ([]zabbix.Interface, error)
	Triggers(ctx context.Context, limit int) ([]zabbix.Trigger, error)
	Problems(ctx context.Context, limit int) ([]zabbix.Problem, error)
	Events(ctx context.Context, limit int) ([]zabbix.Event, error)
	AcknowledgeEvent(ctx context.Context, eventIDs []string, message string) error
	Items(ctx context.Context, hostID string) ([]zabbix.Item, error)
	History(ctx context.Context, itemID string, limit int) ([]zabbix.HistoryValue, error)
	HostGroups(ctx context.Context) ([]zabbix.HostGroup, error)
	Templates(ctx context.Context) ([]zabbix.Template, error)
	LinkTemplateByNames(ctx context.Context, hostname, templateName string) error
	Roles(ctx context.Context) ([]zabbix.Role, error)
	ResolveRoleID(ctx context.Context, role string) (string, error)
	CreateUser(ctx context.Context, p zabbix.CreateUserParams) (string, error)
	UpdateUser(ctx context.Context, p zabbix.UpdateUserParams) error
}

// handlers binds every tool to the API it calls.
type handlers struct {
	api API
}

// Register adds every Zabbix tool to the MCP server. Unknown tool names are
// rejected by the server's own registry before any handler runs.
func Register(s *mcp.Server, api API) {
	h := &handlers{api: api}

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_hosts",
		Description: "List all monitored hosts in Zabbix with their interfaces and status",
	}, h.getHosts)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_host_details",
		Description: "Get detailed information about a specific host by hostname",
	}, h.getHostDetails)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_problems",
		Description: "Get active problems/alerts, newest first",
	}, h.getProblems)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_triggers",
		Description: "List triggers with their current status",
	}, h.getTriggers)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_events",
		Description: "Get recent events from Zabbix",
	}, h.getEvents)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "acknowledge_event",
		Description: "Acknowledge a problem event with an optional message",
	}, h.acknowledgeEvent)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_items",
		Description: "Get monitored items (metrics), optionally scoped to one host",
	}, h.getItems)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_item_history",
		Description: "Get recent recorded values of one item",
	}, h.getItemHistory)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_host_groups",
		Description: "List all host groups",
	}, h.getHostGroups)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_templates",
		Description: "List all available templates",
	}, h.getTemplates)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_system_status",
		Description: "Get overall system status and statistics",
	}, h.getSystemStatus)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_host",
		Description: "Create a new Zabbix host with an agent interface and a linked template. Use this to add new containers/servers to monitoring.",
	}, h.createHost)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_host_interface",
		Description: "Add a network interface to an existing host for polling by the Zabbix server",
	}, h.addHostInterface)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "link_template",
		Description: "Link a template to a host by names (hostname and template name)",
	}, h.linkTemplate)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "check_host_interface_availability",
		Description: "Check if a host interface (agent) is available",
	}, h.checkInterfaceAvailability)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_roles",
		Description: "List all available Zabbix user roles",
	}, h.getRoles)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a new Zabbix user with the specified role",
	}, h.createUser)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "update_user",
		Description: "Update user properties (password, role, profile fields)",
	}, h.updateUser)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "sync_zabbix_sequences",
		Description: "Report corrective SQL for desynchronized sequence tables after manual DB operations. Read-only, executes nothing.",
	}, h.syncSequences)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their wire names, not Go names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkArgs rejects bad or missing tool parameters before any remote call.
func checkArgs(args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return zabbix.WrapError(zabbix.KindValidation, err, "invalid parameters")
	}

	messages := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			messages[i] = fmt.Sprintf("%s is required", fe.Field())
		case "ip":
			messages[i] = fmt.Sprintf("%s must be a valid IP address", fe.Field())
		case "numeric":
			messages[i] = fmt.Sprintf("%s must be numeric", fe.Field())
		default:
			messages[i] = fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
	}
	return zabbix.NewError(zabbix.KindValidation, "%s", strings.Join(messages, "; "))
}

// textResult wraps a human-readable summary for the MCP client.
func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func defaultLimit(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// clockText renders a Zabbix epoch-seconds string as a timestamp.
func clockText(clock string) string {
	var epoch int64
	if _, err := fmt.Sscanf(clock, "%d", &epoch); err != nil {
		return clock
	}
	return time.Unix(epoch, 0).UTC().Format("2006-01-02 15:04:05")
}

// hostNames joins the display names of related hosts.
func hostNames(hosts []zabbix.Host) string {
	if len(hosts) == 0 {
		return "unknown"
	}
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name
	}
	return strings.Join(names, ", ")
}
