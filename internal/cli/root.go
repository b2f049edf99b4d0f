package cli

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
	"os"

	"github.com/spf13/cobra"

	"github.com/rizome-dev/zabbix-mcp/internal/config"
	"github.com/rizome-dev/zabbix-mcp/internal/mcp"
	"github.com/rizome-dev/zabbix-mcp/internal/utils"
	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// RootCmd returns the root command. With no subcommand it serves MCP on
// stdio, which is how MCP clients are expected to launch the binary.
func RootCmd(version string) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "zabbix-mcp",
		Short: "MCP server for Zabbix monitoring",
		Long: `zabbix-mcp exposes a Zabbix frontend to MCP clients over stdio.
It covers host inventory, problems and triggers, items and history,
templates, host groups and user administration.

Connection settings come from ZABBIX_* environment variables overlaid on
an optional YAML config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configFile, version)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.zabbix-mcp/config.yaml)")

	rootCmd.AddCommand(
		CheckCmd(&configFile),
	)

	return rootCmd
}

// newLogger logs to stderr. Stdout carries the MCP transport and must stay
// clean of anything but protocol frames.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func serve(ctx context.Context, configFile, version string) error {
	logger := newLogger()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	client := zabbix.NewClient(zabbix.Options{
		URL:       cfg.BaseURL(),
		Username:  cfg.Username,
		Password:  cfg.Password,
		VerifySSL: cfg.VerifySSL,
		Logger:    logger,
	})

	// Authenticate up front so misconfiguration surfaces before the first
	// tool call, and make sure the session dies with the process.
	if err := client.Login(ctx); err != nil {
		return err
	}
	utils.RegisterCleanup("zabbix session", client.Logout)

	defer utils.RunCleanup(context.WithoutCancel(ctx), logger)

	return mcp.New(client, version, logger).Run(ctx)
}
