package main

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
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"

	"github.com/rizome-dev/zabbix-mcp/internal/cli"
	"github.com/rizome-dev/zabbix-mcp/internal/utils"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "shutting down")
		cancel()

		// Log the session out even if the server loop is stuck.
		cleanupDone := make(chan struct{})
		go func() {
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cleanupCancel()
			utils.RunCleanup(cleanupCtx, slog.New(slog.NewTextHandler(os.Stderr, nil)))
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-time.After(3 * time.Second):
			fmt.Fprintln(os.Stderr, "cleanup timeout exceeded, forcing exit")
		}

		os.Exit(130)
	}()

	rootCmd := cli.RootCmd(fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime))

	if err := fang.Execute(ctx, rootCmd); err != nil {
		if ctx.Err() != context.Canceled {
			os.Exit(1)
		}
	}
}
