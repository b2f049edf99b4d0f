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

// Zabbix serializes almost every field as a string, including numbers and
// enum codes. The views below keep that representation and only name the
// fields this server reads; everything else passes through untouched on
// the wire.

// Host is a monitored machine or container entity.
type Host struct {
	HostID          string      `json:"hostid"`
	Host            string      `json:"host"`
	Name            string      `json:"name"`
	Status          string      `json:"status"` // 0=enabled, 1=disabled
	Interfaces      []Interface `json:"interfaces,omitempty"`
	ParentTemplates []Template  `json:"parentTemplates,omitempty"`
}

// Interface is a network endpoint through which the server polls a host.
type Interface struct {
	InterfaceID string `json:"interfaceid"`
	HostID      string `json:"hostid"`
	IP          string `json:"ip"`
	DNS         string `json:"dns"`
	Port        string `json:"port"`
	Type        string `json:"type"`      // 1=agent, 2=SNMP, 3=IPMI, 4=JMX
	Main        string `json:"main"`      // 1=primary
	Available   string `json:"available"` // 0=unknown, 1=available, 2=unavailable
}

// HostGroup is a named collection of hosts.
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
}

// Template is a reusable bundle of items and triggers linkable to a host.
type Template struct {
	TemplateID string `json:"templateid"`
	Host       string `json:"host"`
	Name       string `json:"name"`
}

// Trigger is a condition evaluated over item values.
type Trigger struct {
	TriggerID   string `json:"triggerid"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Value       string `json:"value"` // 0=OK, 1=problem
	Hosts       []Host `json:"hosts,omitempty"`
}

// Problem is an active, unresolved trigger firing.
type Problem struct {
	EventID  string `json:"eventid"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Clock    string `json:"clock"`
	Hosts    []Host `json:"hosts,omitempty"`
}

// Event is a historical occurrence recorded by the server.
type Event struct {
	EventID string `json:"eventid"`
	Name    string `json:"name"`
	Clock   string `json:"clock"`
	Value   string `json:"value"`
	Hosts   []Host `json:"hosts,omitempty"`
}

// Item is a single monitored metric attached to a host.
type Item struct {
	ItemID    string `json:"itemid"`
	HostID    string `json:"hostid"`
	Name      string `json:"name"`
	Key       string `json:"key_"`
	LastValue string `json:"lastvalue"`
	Units     string `json:"units"`
	Hosts     []Host `json:"hosts,omitempty"`
}

// HistoryValue is one recorded value of an item.
type HistoryValue struct {
	ItemID string `json:"itemid"`
	Clock  string `json:"clock"`
	Value  string `json:"value"`
}

// Role is a Zabbix user role.
type Role struct {
	RoleID string `json:"roleid"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// User is a Zabbix API user account.
type User struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	RoleID   string `json:"roleid"`
}

// HostStatusText translates the numeric host status code.
func HostStatusText(status string) string {
	if status == "0" {
		return "Enabled"
	}
	return "Disabled"
}

// TriggerValueText translates the numeric trigger value code.
func TriggerValueText(value string) string {
	if value == "1" {
		return "PROBLEM"
	}
	return "OK"
}

// AvailabilityText translates the interface availability flag.
func AvailabilityText(available string) string {
	switch available {
	case "1":
		return "available"
	case "2":
		return "unavailable"
	default:
		return "unknown"
	}
}
