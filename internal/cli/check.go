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
	"github.com/spf13/cobra"

	"github.com/rizome-dev/zabbix-mcp/internal/config"
	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// CheckCmd verifies the configured Zabbix connection end to end: resolve
// settings, authenticate, query the API version and count hosts.
func CheckCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Zabbix connection and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			cmd.Printf("Endpoint: %s\n", cfg.APIURL())

			client := zabbix.NewClient(zabbix.Options{
				URL:       cfg.BaseURL(),
				Username:  cfg.Username,
				Password:  cfg.Password,
				VerifySSL: cfg.VerifySSL,
				Logger:    newLogger(),
			})

			version, err := client.Version(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("API version: %s\n", version)

			if err := client.Login(ctx); err != nil {
				return err
			}
			defer func() { _ = client.Logout(ctx) }()
			cmd.Printf("Authenticated as %s\n", cfg.Username)

			hosts, err := client.Hosts(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Monitored hosts: %d\n", len(hosts))
			cmd.Println("Connection OK")
			return nil
		},
	}
}
