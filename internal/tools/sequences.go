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

// sequenceTables are the Zabbix tables whose auto-increment counters in the
// ids table drift after manual database edits.
var sequenceTables = []struct {
	Table  string
	Column string
}{
	{"hosts", "hostid"},
	{"interface", "interfaceid"},
	{"items", "itemid"},
}

type SyncSequencesArgs struct{}

// syncSequences is a diagnostic report generator. It computes the corrective
// statements for out-of-sync sequence tables and returns them for an
// operator to review; it never touches the database and performs no writes
// through the API.
func (h *handlers) syncSequences(ctx context.Context, req *mcp.CallToolRequest, args SyncSequencesArgs) (*mcp.CallToolResult, any, error) {
	statements := make([]string, 0, len(sequenceTables)+1)
	names := make([]string, 0, len(sequenceTables))
	for _, seq := range sequenceTables {
		statements = append(statements, fmt.Sprintf(
			"UPDATE ids SET nextid = (SELECT MAX(%s) + 1 FROM %s) WHERE table_name = '%s';",
			seq.Column, seq.Table, seq.Table))
		names = append(names, "'"+seq.Table+"'")
	}
	verify := fmt.Sprintf("SELECT table_name, nextid FROM ids WHERE table_name IN (%s);",
		strings.Join(names, ", "))

	var b strings.Builder
	b.WriteString("Sequence sync report (read-only, nothing was executed).\n\n")
	b.WriteString("After manual database operations the sequence tables can drift from\n")
	b.WriteString("the real maximum IDs. Review and run these statements on the Zabbix\n")
	b.WriteString("database once:\n\n")
	for _, stmt := range statements {
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	b.WriteString("\nVerify with:\n")
	b.WriteString(verify)
	b.WriteString("\n\nAPI-based operations keep sequences in sync automatically; this is\nonly needed after manual edits.")

	return textResult("%s", b.String()), map[string]any{
		"statements": statements,
		"verify":     verify,
		"read_only":  true,
	}, nil
}
