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

// Roles returns all user roles.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := c.CallInto(ctx, "role.get", map[string]any{
		"output": []string{"roleid", "name", "type"},
	}, &roles)
	return roles, err
}

// ResolveRoleID turns a role name into its ID. A value that is already
// numeric is passed through unchanged.
func (c *Client) ResolveRoleID(ctx context.Context, role string) (string, error) {
	if isDigits(role) {
		return role, nil
	}

	var roles []Role
	err := c.CallInto(ctx, "role.get", map[string]any{
		"output": []string{"roleid", "name"},
		"filter": map[string]any{"name": role},
	}, &roles)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", NewError(KindNotFound, "role %q not found", role)
	}
	return roles[0].RoleID, nil
}

// CreateUserParams are the fields accepted by user.create.
type CreateUserParams struct {
	Username string
	Password string
	RoleID   string
	Name     string
	Surname  string
	Email    string
}

// CreateUser creates an API user and returns the new user ID.
func (c *Client) CreateUser(ctx context.Context, p CreateUserParams) (string, error) {
	params := map[string]any{
		"username": p.Username,
		"passwd":   p.Password,
		"roleid":   p.RoleID,
	}
	if p.Name != "" {
		params["name"] = p.Name
	}
	if p.Surname != "" {
		params["surname"] = p.Surname
	}
	if p.Email != "" {
		// Media type 1 is the built-in email transport.
		params["medias"] = []map[string]any{
			{"mediatypeid": "1", "sendto": []string{p.Email}},
		}
	}

	var result struct {
		UserIDs []string `json:"userids"`
	}
	if err := c.CallInto(ctx, "user.create", params, &result); err != nil {
		return "", err
	}
	if len(result.UserIDs) == 0 {
		return "", NewError(KindAPI, "user.create returned no user ID")
	}
	return result.UserIDs[0], nil
}

// UpdateUserParams are the fields accepted by user.update. Zero-valued
// fields are left untouched.
type UpdateUserParams struct {
	UserID          string
	Password        string
	CurrentPassword string // required by the API when changing a password
	RoleID          string
	Name            string
	Surname         string
}

// UpdateUser applies the non-empty fields of p to an existing user.
func (c *Client) UpdateUser(ctx context.Context, p UpdateUserParams) error {
	params := map[string]any{"userid": p.UserID}
	if p.Password != "" {
		params["passwd"] = p.Password
		if p.CurrentPassword != "" {
			params["current_passwd"] = p.CurrentPassword
		}
	}
	if p.RoleID != "" {
		params["roleid"] = p.RoleID
	}
	if p.Name != "" {
		params["name"] = p.Name
	}
	if p.Surname != "" {
		params["surname"] = p.Surname
	}

	_, err := c.Call(ctx, "user.update", params)
	return err
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
