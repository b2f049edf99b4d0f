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
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// rawCall is one low-level JSON-RPC invocation the fake saw.
type rawCall struct {
	Method string
	Params map[string]any
}

// fakeAPI records every remote interaction so tests can assert that
// validation failures never reach the wire and that defaults are supplied.
type fakeAPI struct {
	remoteCalls int
	raw         []rawCall

	callErr error
	callFn  func(method string, params any) (json.RawMessage, error)

	hosts       []zabbix.Host
	hostsByName map[string]*zabbix.Host
	interfaces  []zabbix.Interface
	triggers    []zabbix.Trigger
	problems    []zabbix.Problem
	events      []zabbix.Event
	items       []zabbix.Item
	history     []zabbix.HistoryValue
	groups      []zabbix.HostGroup
	templates   []zabbix.Template
	roles       []zabbix.Role

	problemLimit int
	triggerLimit int
	eventLimit   int
	historyLimit int
	itemsHostID  string

	ackedEvents []string
	ackMessage  string

	linkedHost     string
	linkedTemplate string

	createdUser zabbix.CreateUserParams
	updatedUser zabbix.UpdateUserParams
}

func (f *fakeAPI) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	f.remoteCalls++

	encoded, _ := json.Marshal(params)
	var decoded map[string]any
	_ = json.Unmarshal(encoded, &decoded)
	f.raw = append(f.raw, rawCall{Method: method, Params: decoded})

	if f.callErr != nil {
		return nil, f.callErr
	}
	if f.callFn != nil {
		return f.callFn(method, params)
	}
	switch method {
	case "host.create":
		return json.RawMessage(`{"hostids":["10105"]}`), nil
	case "hostinterface.create":
		return json.RawMessage(`{"interfaceids":["55"]}`), nil
	case "host.update":
		return json.RawMessage(`{"hostids":["10105"]}`), nil
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeAPI) Hosts(ctx context.Context) ([]zabbix.Host, error) {
	f.remoteCalls++
	return f.hosts, nil
}

func (f *fakeAPI) HostByName(ctx context.Context, hostname string) (*zabbix.Host, error) {
	f.remoteCalls++
	if host, ok := f.hostsByName[hostname]; ok {
		return host, nil
	}
	return nil, zabbix.NewError(zabbix.KindNotFound, "host %q not found", hostname)
}

func (f *fakeAPI) HostInterfaces(ctx context.Context, hostID string) ([]zabbix.Interface, error) {
	f.remoteCalls++
	return f.interfaces, nil
}

func (f *fakeAPI) Triggers(ctx context.Context, limit int) ([]zabbix.Trigger, error) {
	f.remoteCalls++
	f.triggerLimit = limit
	return f.triggers, nil
}

func (f *fakeAPI) Problems(ctx context.Context, limit int) ([]zabbix.Problem, error) {
	f.remoteCalls++
	f.problemLimit = limit
	return f.problems, nil
}

func (f *fakeAPI) Events(ctx context.Context, limit int) ([]zabbix.Event, error) {
	f.remoteCalls++
	f.eventLimit = limit
	return f.events, nil
}

func (f *fakeAPI) AcknowledgeEvent(ctx context.Context, eventIDs []string, message string) error {
	f.remoteCalls++
	f.ackedEvents = append(f.ackedEvents, eventIDs...)
	f.ackMessage = message
	return nil
}

func (f *fakeAPI) Items(ctx context.Context, hostID string) ([]zabbix.Item, error) {
	f.remoteCalls++
	f.itemsHostID = hostID
	return f.items, nil
}

func (f *fakeAPI) History(ctx context.Context, itemID string, limit int) ([]zabbix.HistoryValue, error) {
	f.remoteCalls++
	f.historyLimit = limit
	return f.history, nil
}

func (f *fakeAPI) HostGroups(ctx context.Context) ([]zabbix.HostGroup, error) {
	f.remoteCalls++
	return f.groups, nil
}

func (f *fakeAPI) Templates(ctx context.Context) ([]zabbix.Template, error) {
	f.remoteCalls++
	return f.templates, nil
}

func (f *fakeAPI) LinkTemplateByNames(ctx context.Context, hostname, templateName string) error {
	f.remoteCalls++
	f.linkedHost = hostname
	f.linkedTemplate = templateName
	return nil
}

func (f *fakeAPI) Roles(ctx context.Context) ([]zabbix.Role, error) {
	f.remoteCalls++
	return f.roles, nil
}

func (f *fakeAPI) ResolveRoleID(ctx context.Context, role string) (string, error) {
	f.remoteCalls++
	for _, r := range f.roles {
		if r.Name == role || r.RoleID == role {
			return r.RoleID, nil
		}
	}
	return "", zabbix.NewError(zabbix.KindNotFound, "role %q not found", role)
}

func (f *fakeAPI) CreateUser(ctx context.Context, p zabbix.CreateUserParams) (string, error) {
	f.remoteCalls++
	f.createdUser = p
	return "42", nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, p zabbix.UpdateUserParams) error {
	f.remoteCalls++
	f.updatedUser = p
	return nil
}

// rawCallsFor filters the low-level invocations by method.
func (f *fakeAPI) rawCallsFor(method string) []rawCall {
	var out []rawCall
	for _, c := range f.raw {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func newFake() *fakeAPI {
	return &fakeAPI{hostsByName: map[string]*zabbix.Host{}}
}

// resultText extracts the first text block of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}
