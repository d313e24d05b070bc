/*
fixbuilder — FIX message builder and decoder
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/

// Package config loads fixbuilder settings from defaults, an optional
// YAML/JSON/TOML file and FIXBUILDER_* environment variables, in that order
// of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/stephenlclarke/fixbuilder/internal/logging"
)

const EnvPrefix = "FIXBUILDER"

type Config struct {
	Session    SessionConfig  `mapstructure:"session"`
	Build      BuildConfig    `mapstructure:"build"`
	Display    DisplayConfig  `mapstructure:"display"`
	Log        logging.Config `mapstructure:"log"`
	Dictionary string         `mapstructure:"dictionary"` // optional QuickFIX XML data dictionary
}

// SessionConfig supplies header defaults for built messages.
type SessionConfig struct {
	BeginString  string `mapstructure:"begin_string"   validate:"required,startswith=FIX"`
	SenderCompID string `mapstructure:"sender_comp_id"`
	TargetCompID string `mapstructure:"target_comp_id"`
}

type BuildConfig struct {
	Strict           bool `mapstructure:"strict"`
	StampSendingTime bool `mapstructure:"stamp_sending_time"`
}

type DisplayConfig struct {
	Colour        string `mapstructure:"colour"         validate:"oneof=auto yes no"`
	Obfuscate     bool   `mapstructure:"obfuscate"`
	SensitiveTags []int  `mapstructure:"sensitive_tags" validate:"dive,gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session.begin_string", "FIX.4.4")
	v.SetDefault("session.sender_comp_id", "")
	v.SetDefault("session.target_comp_id", "")

	v.SetDefault("build.strict", false)
	v.SetDefault("build.stamp_sending_time", false)

	v.SetDefault("display.colour", "auto")
	v.SetDefault("display.obfuscate", false)
	v.SetDefault("display.sensitive_tags", []int{1, 49, 56})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("dictionary", "")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}
	return cfg
}

// Load reads path (skipped when empty), overlays the environment and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// SensitiveTags maps the configured tags to alias prefixes, using the label
// lookup for names.
func (c *Config) SensitiveTags(label func(int) string) map[int]string {
	out := make(map[int]string, len(c.Display.SensitiveTags))
	for _, tag := range c.Display.SensitiveTags {
		out[tag] = label(tag)
	}
	return out
}
