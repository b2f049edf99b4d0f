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

const defaultRole = "Super admin role"

type GetRolesArgs struct{}

func (h *handlers) getRoles(ctx context.Context, req *mcp.CallToolRequest, args GetRolesArgs) (*mcp.CallToolResult, any, error) {
	roles, err := h.api.Roles(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(roles) == 0 {
		return textResult("No roles found"), map[string]any{"total": 0, "roles": roles}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available roles (%d):\n\n", len(roles))
	for _, role := range roles {
		fmt.Fprintf(&b, "- %s (ID: %s, type: %s)\n", role.Name, role.RoleID, role.Type)
	}

	return textResult("%s", b.String()), map[string]any{"total": len(roles), "roles": roles}, nil
}

type CreateUserArgs struct {
	Username string `json:"username" jsonschema:"Unique username" validate:"required"`
	Password string `json:"password" jsonschema:"User password" validate:"required"`
	Role     string `json:"role,omitempty" jsonschema:"Role name or ID (default 'Super admin role')"`
	Email    string `json:"email,omitempty" jsonschema:"Optional email address" validate:"omitempty,email"`
	Name     string `json:"name,omitempty" jsonschema:"Optional first name"`
	Surname  string `json:"surname,omitempty" jsonschema:"Optional last name"`
}

func (h *handlers) createUser(ctx context.Context, req *mcp.CallToolRequest, args CreateUserArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}

	// The API rejects passwords containing the username or surname; fail
	// locally before creating anything.
	lower := strings.ToLower(args.Password)
	if strings.Contains(lower, strings.ToLower(args.Username)) {
		return nil, nil, zabbix.NewError(zabbix.KindValidation, "password cannot contain the username")
	}
	if args.Surname != "" && strings.Contains(lower, strings.ToLower(args.Surname)) {
		return nil, nil, zabbix.NewError(zabbix.KindValidation, "password cannot contain the surname")
	}

	roleID, err := h.api.ResolveRoleID(ctx, defaultString(args.Role, defaultRole))
	if err != nil {
		return nil, nil, err
	}

	userID, err := h.api.CreateUser(ctx, zabbix.CreateUserParams{
		Username: args.Username,
		Password: args.Password,
		RoleID:   roleID,
		Name:     args.Name,
		Surname:  args.Surname,
		Email:    args.Email,
	})
	if err != nil {
		return nil, nil, err
	}

	return textResult("User created successfully.\nUser ID: %s\nUsername: %s", userID, args.Username),
		map[string]any{"userid": userID, "username": args.Username, "roleid": roleID}, nil
}

type UpdateUserArgs struct {
	UserID          string `json:"userid" jsonschema:"User ID to update" validate:"required,numeric"`
	Password        string `json:"password,omitempty" jsonschema:"New password"`
	CurrentPassword string `json:"current_password,omitempty" jsonschema:"Current password, required when changing the password"`
	RoleID          string `json:"roleid,omitempty" jsonschema:"New role ID" validate:"omitempty,numeric"`
	Name            string `json:"name,omitempty" jsonschema:"New first name"`
	Surname         string `json:"surname,omitempty" jsonschema:"New last name"`
}

func (h *handlers) updateUser(ctx context.Context, req *mcp.CallToolRequest, args UpdateUserArgs) (*mcp.CallToolResult, any, error) {
	if err := checkArgs(args); err != nil {
		return nil, nil, err
	}
	if args.Password != "" && args.CurrentPassword == "" {
		return nil, nil, zabbix.NewError(zabbix.KindValidation, "current_password is required when changing the password")
	}

	var changes []string
	if args.Password != "" {
		changes = append(changes, "password")
	}
	if args.RoleID != "" {
		changes = append(changes, "role")
	}
	if args.Name != "" {
		changes = append(changes, "name")
	}
	if args.Surname != "" {
		changes = append(changes, "surname")
	}
	if len(changes) == 0 {
		return nil, nil, zabbix.NewError(zabbix.KindValidation, "nothing to update")
	}

	err := h.api.UpdateUser(ctx, zabbix.UpdateUserParams{
		UserID:          args.UserID,
		Password:        args.Password,
		CurrentPassword: args.CurrentPassword,
		RoleID:          args.RoleID,
		Name:            args.Name,
		Surname:         args.Surname,
	})
	if err != nil {
		return nil, nil, err
	}

	return textResult("User updated successfully.\nChanges: %s", strings.Join(changes, ", ")),
		map[string]any{"userid": args.UserID, "changes": changes}, nil
}
