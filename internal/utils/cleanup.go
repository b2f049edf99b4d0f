package utils

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
	"sync"
)

type cleanup struct {
	name string
	fn   func(context.Context) error
}

// CleanupManager collects shutdown hooks and runs them once, newest first.
// The Zabbix session logout registers here so an interrupt still invalidates
// the server-side token.
type CleanupManager struct {
	mu       sync.Mutex
	cleanups []cleanup
}

var globalCleanup = &CleanupManager{}

// RegisterCleanup registers a named shutdown hook.
func RegisterCleanup(name string, fn func(context.Context) error) {
	globalCleanup.mu.Lock()
	defer globalCleanup.mu.Unlock()
	globalCleanup.cleanups = append(globalCleanup.cleanups, cleanup{name: name, fn: fn})
}

// RunCleanup runs every registered hook in LIFO order. A failing hook is
// logged and does not stop the remaining hooks. The list is cleared, so a
// second call is a no-op.
func RunCleanup(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	globalCleanup.mu.Lock()
	cleanups := globalCleanup.cleanups
	globalCleanup.cleanups = nil
	globalCleanup.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i].fn(ctx); err != nil {
			logger.Warn("cleanup failed", "name", cleanups[i].name, "error", err)
		}
	}
}
