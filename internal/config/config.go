// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package config holds the settings of the polygonctl front end.
//
// Values are layered: defaults, then a TOML file, then a .env file, then the
// process environment, then command-line flags. Later sources win.
package config

import (
	"bytes"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	polygon "github.com/VNOI-Admin/polygon-bot"
)

// Environment variables read by Load.
const (
	EnvEndpoint  = "POLYGON_ENDPOINT"
	EnvUsername  = "POLYGON_USERNAME"
	EnvPassword  = "POLYGON_PASSWORD"
	EnvAPIKey    = "POLYGON_API_KEY"
	EnvAPISecret = "POLYGON_API_SECRET"
	EnvLogLevel  = "POLYGON_LOG_LEVEL"
	EnvLogFormat = "POLYGON_LOG_FORMAT"
)

// Config holds runtime settings for polygonctl.
type Config struct {
	Endpoint  string `toml:"endpoint"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `toml:"log_format"`
}

// LoadDefaults populates c with defaults. Credentials have none.
func (c *Config) LoadDefaults() {
	c.Endpoint = polygon.DefaultEndpoint
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, the TOML file at path and the .env file
// at envFile, then the process environment. Either path may be empty. A
// missing .env file is not an error; a missing TOML file is, since it was
// asked for explicitly.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if len(path) > 0 {
		if err := cfg.loadTOML(path); err != nil {
			return nil, err
		}
	}

	dotenv := map[string]string{}

	if len(envFile) > 0 {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case !os.IsNotExist(errors.Cause(err)):
			return nil, errors.Wrapf(err, "failed to read %s", envFile)
		}
	}

	// an exported but empty variable does not hide the .env value
	cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && len(v) > 0 {
			return v, true
		}

		v, ok := dotenv[key]

		return v, ok
	})

	return cfg, nil
}

func (c *Config) loadTOML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	// decode on top of the current values so absent keys keep them
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return nil
}

// applyEnv overlays every variable lookup finds with a non-empty value.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	fields := []struct {
		key string
		dst *string
	}{
		{EnvEndpoint, &c.Endpoint},
		{EnvUsername, &c.Username},
		{EnvPassword, &c.Password},
		{EnvAPIKey, &c.APIKey},
		{EnvAPISecret, &c.APISecret},
		{EnvLogLevel, &c.LogLevel},
		{EnvLogFormat, &c.LogFormat},
	}

	for _, f := range fields {
		if v, ok := lookup(f.key); ok && len(v) > 0 {
			*f.dst = v
		}
	}
}

// Validate reports the first missing credential.
func (c *Config) Validate() error {
	switch {
	case len(c.Username) == 0:
		return errors.Errorf("polygon username is not set (%s)", EnvUsername)
	case len(c.Password) == 0:
		return errors.Errorf("polygon password is not set (%s)", EnvPassword)
	case len(c.APIKey) == 0:
		return errors.Errorf("polygon API key is not set (%s)", EnvAPIKey)
	case len(c.APISecret) == 0:
		return errors.Errorf("polygon API secret is not set (%s)", EnvAPISecret)
	}

	return nil
}

// Credentials returns the credentials in the form the client takes.
func (c *Config) Credentials() polygon.Credentials {
	return polygon.Credentials{
		Username:  c.Username,
		Password:  c.Password,
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
	}
}
