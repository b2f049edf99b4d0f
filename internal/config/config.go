package config

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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rizome-dev/zabbix-mcp/pkg/zabbix"
)

// Config holds the Zabbix connection settings. Immutable once loaded;
// lifecycle is the process lifetime.
type Config struct {
	Host      string
	Username  string
	Password  string
	Port      int
	HTTPS     bool
	VerifySSL bool
}

// requiredKeys are the settings that have no usable default.
var requiredKeys = []string{"host", "username", "password"}

// Load reads connection settings from ZABBIX_* environment variables,
// overlaid on an optional YAML config file. configFile may be empty, in
// which case $HOME/.zabbix-mcp/config.yaml is used when present.
//
// Load never partially succeeds: if any required key is absent the error
// names every missing key at once.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ZABBIX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("port", 80)
	v.SetDefault("https", false)
	v.SetDefault("verify_ssl", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, zabbix.WrapError(zabbix.KindConfig, err, "reading config file %s", configFile)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".zabbix-mcp", "config.yaml"))
		// A missing default config file is fine; env vars may carry everything.
		_ = v.ReadInConfig()
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			missing = append(missing, "ZABBIX_"+strings.ToUpper(key))
		}
	}
	if len(missing) > 0 {
		return nil, zabbix.NewError(zabbix.KindConfig,
			"missing required settings: %s", strings.Join(missing, ", "))
	}

	return &Config{
		Host:      v.GetString("host"),
		Username:  v.GetString("username"),
		Password:  v.GetString("password"),
		Port:      v.GetInt("port"),
		HTTPS:     v.GetBool("https"),
		VerifySSL: v.GetBool("verify_ssl"),
	}, nil
}

// BaseURL builds the frontend base URL from protocol, host and port.
func (c *Config) BaseURL() string {
	protocol := "http"
	if c.HTTPS {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s:%d", protocol, c.Host, c.Port)
}

// APIURL is the JSON-RPC endpoint derived from BaseURL.
func (c *Config) APIURL() string {
	return c.BaseURL() + zabbix.APIPath
}
