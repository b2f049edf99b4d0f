package mcp

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
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rizome-dev/zabbix-mcp/internal/tools"
)

const serverName = "zabbix-mcp"

// Instructions is the usage hint handed to MCP clients on initialize.
const Instructions = `Zabbix monitoring server. Tools cover host inventory
(get_hosts, get_host_details, create_host, add_host_interface,
check_host_interface_availability), alerting (get_problems, get_triggers,
get_events, acknowledge_event), metrics (get_items, get_item_history,
get_system_status), templates and groups (get_host_groups, get_templates,
link_template) and user administration (get_roles, create_user,
update_user). All IDs are Zabbix object IDs returned by the list tools.`

// Server serves the Zabbix tool set over an MCP transport.
type Server struct {
	api     tools.API
	version string
	logger  *slog.Logger
}

// New builds a server around an authenticated-or-lazy Zabbix API client.
func New(api tools.API, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{api: api, version: version, logger: logger}
}

// Run registers the tools and serves on stdio until ctx is cancelled or the
// client disconnects. Stdout belongs to the transport; all logging must go
// to stderr.
func (s *Server) Run(ctx context.Context) error {
	srv := s.build()
	s.logger.Info("serving MCP on stdio", "server", serverName, "version", s.version)
	return srv.Run(ctx, &sdk.StdioTransport{})
}

func (s *Server) build() *sdk.Server {
	srv := sdk.NewServer(&sdk.Implementation{
		Name:    serverName,
		Version: s.version,
	}, &sdk.ServerOptions{
		Instructions: Instructions,
	})
	tools.Register(srv, s.api)
	return srv
}
