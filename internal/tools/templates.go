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
)

type GetHostGroupsArgs struct{}

func (h *handlers) getHostGroups(ctx context.Context, req *mcp.CallToolRequest, args GetHostGroupsArgs) (*mcp.CallToolResult, any, error) {
	groups, err := h.api.HostGroups(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(groups) == 0 {
		return textResult("No host groups found"), map[string]any{"total": 0, "groups": groups}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Host groups: %d\n\n", len(groups))
	for _, group := range groups {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", group.Name, group.GroupID)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(groups), "groups": groups}, nil
}

type GetTemplatesArgs struct{}

func (h *handlers) getTemplates(ctx context.Context, req *mcp.CallToolRequest, args GetTemplatesArgs) (*mcp.CallToolResult, any, error) {
	templates, err := h.api.Templates(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(templates) == 0 {
		return textResult("No templates found"), map[string]any{"total": 0, "templates": templates}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available templates: %d\n\n", len(templates))
	for _, tpl := range truncate(templates) {
		fmt.Fprintf(&b, "- %s (%s)\n", tpl.Name, tpl.Host)
	}
	if len(templates) > listCap {
		fmt.Fprintf(&b, "\n... and %d more templates", len(templates)-listCap)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(templates), "templates": templates}, nil
}

type LinkTemplateArgs struct {
	Hostname     string `json:"hostname" jsonschema:"Host name" validate:"required"`
	TemplateName string `json:"template_name" jsonschema:"Template name" validate:"required"`
}

func (h *handlers) linkTemplate(ctx context.Context, req *mcp.CallToolRequest, args LinkTemplateArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	if err := h.api.LinkTemplateByNames(ctx, args.Hostname, args.TemplateName); err != nil {
		return nil, nil, err
	}

	return textResult("Linked template %q to host %q", args.TemplateName, args.Hostname),
		map[string]any{"hostname": args.Hostname, "template": args.TemplateName, "linked": true}, nil
}
