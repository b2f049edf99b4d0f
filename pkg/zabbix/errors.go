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
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to react to the failure
// class rather than the exact message.
type Kind string

const (
	// KindConfig indicates missing or invalid settings. Fatal at startup.
	KindConfig Kind = "config"
	// KindConnection indicates a transport-level failure reaching the API.
	KindConnection Kind = "connection"
	// KindAuth indicates bad credentials or an unrecoverable session expiry.
	KindAuth Kind = "auth"
	// KindValidation indicates bad or missing tool parameters, rejected
	// before any remote call.
	KindValidation Kind = "validation"
	// KindNotFound indicates a referenced entity is absent.
	KindNotFound Kind = "not_found"
	// KindConflict indicates a uniqueness violation on creation.
	KindConflict Kind = "conflict"
	// KindAPI indicates a remote-reported business error, passed through
	// with the original code and message preserved.
	KindAPI Kind = "api"
)

// Error is the structured error surfaced to tool callers. Remote-reported
// errors keep the Zabbix JSON-RPC code and data verbatim.
type Error struct {
	Kind    Kind
	Message string
	Code    int    // remote JSON-RPC error code, zero unless remote-reported
	Data    string // remote error detail, verbatim
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Data != "" && e.Data != e.Message {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Data)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error of the given kind wrapping a cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or KindAPI when err is not a *Error.
// A nil err has no kind and returns the empty string.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAPI
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
