// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
	"github.com/NVIDIA/rgb-relay/pkg/errors"
	"github.com/NVIDIA/rgb-relay/pkg/relay"
)

// Environment variable names.
const (
	EnvPort              = "PORT"
	EnvDownstreamURL     = "RGB_RELAY_DOWNSTREAM_URL"
	EnvDownstreamTimeout = "RGB_RELAY_DOWNSTREAM_TIMEOUT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT_SECONDS"

	// EnvConfigSource names the config file path or ConfigMap URI.
	EnvConfigSource = "RGB_RELAY_CONFIG"
)

// DefaultPort is the relay listen port.
const DefaultPort = 5000

// Config is the relay process configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Downstream DownstreamConfig `json:"downstream" yaml:"downstream"`
	Messages   relay.Messages   `json:"messages" yaml:"messages"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// ServerConfig holds listener and limit settings.
type ServerConfig struct {
	Address         string        `json:"address" yaml:"address"`
	Port            int           `json:"port" yaml:"port"`
	RateLimit       float64       `json:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst  int           `json:"rateLimitBurst" yaml:"rateLimitBurst"`
	MaxBodyBytes    int64         `json:"maxBodyBytes" yaml:"maxBodyBytes"`
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout     time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

// DownstreamConfig describes the service payloads are relayed to.
type DownstreamConfig struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			RateLimit:       100,
			RateLimitBurst:  200,
			MaxBodyBytes:    defaults.MaxRequestBodyBytes,
			ReadTimeout:     defaults.ServerReadTimeout,
			WriteTimeout:    defaults.ServerWriteTimeout,
			IdleTimeout:     defaults.ServerIdleTimeout,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
		Downstream: DownstreamConfig{
			URL:     relay.DefaultDownstreamURL,
			Timeout: defaults.DownstreamTimeout,
		},
		Messages: relay.DefaultMessages(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, the optional source and the
// environment. source may be empty, a file path or a cm:// URI.
// The result is not validated.
func Load(ctx context.Context, source string) (*Config, error) {
	cfg := Default()

	if source != "" {
		data, err := readSource(ctx, source)
		if err != nil {
			return nil, err
		}
		if err := cfg.merge(data); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse config", err,
				map[string]any{"source": source})
		}
		slog.Debug("loaded config", "source", source)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readSource returns the raw document.
func readSource(ctx context.Context, source string) ([]byte, error) {
	if IsConfigMapURI(source) {
		return readConfigMap(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read config file", err,
			map[string]any{"path": source})
	}
	return data, nil
}

// merge decodes data over the current values. JSON documents go through
// the YAML decoder too so durations can be written as "30s".
func (c *Config) merge(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// ApplyEnv overrides fields from environment variables looked up with
// lookup, normally os.LookupEnv. Unset and empty variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvPort, v, err)
		}
		c.Server.Port = port
	}

	if v, ok := get(EnvDownstreamURL); ok {
		c.Downstream.URL = v
	}

	if v, ok := get(EnvDownstreamTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(EnvDownstreamTimeout, v, err)
		}
		c.Downstream.Timeout = d
	}

	if v, ok := get(EnvLogLevel); ok {
		c.Log.Level = v
	}

	// Matches the Kubernetes termination grace period, so whole seconds.
	if v, ok := get(EnvShutdownTimeout); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvShutdownTimeout, v, err)
		}
		c.Server.ShutdownTimeout = time.Duration(seconds) * time.Second
	}

	return nil
}

func envError(key, value string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid value for %s", key), err,
		map[string]any{"env": key, "value": value})
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "server port must be between 1 and 65535",
			map[string]any{"port": c.Server.Port})
	}
	if err := relay.ValidateDownstreamURL(c.Downstream.URL); err != nil {
		return err
	}

	durations := map[string]time.Duration{
		"downstream.timeout":     c.Downstream.Timeout,
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.idleTimeout":     c.Server.IdleTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
	}
	for name, d := range durations {
		if d < 0 {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, name+" must not be negative",
				map[string]any{"value": d.String()})
		}
	}

	downstream, write := c.effectiveTimeouts()
	if downstream >= write {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"downstream.timeout must be shorter than server.writeTimeout",
			map[string]any{"downstreamTimeout": downstream.String(), "writeTimeout": write.String()})
	}

	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst <= 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "rate limit and burst must be positive",
			map[string]any{"rateLimit": c.Server.RateLimit, "burst": c.Server.RateLimitBurst})
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "server.maxBodyBytes must be positive",
			map[string]any{"value": c.Server.MaxBodyBytes})
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unknown log level",
			map[string]any{"level": c.Log.Level})
	}

	return nil
}

// effectiveTimeouts returns the downstream and server write timeouts with
// zero values resolved to the defaults the relay and server fall back to.
func (c *Config) effectiveTimeouts() (downstream, write time.Duration) {
	downstream, write = c.Downstream.Timeout, c.Server.WriteTimeout
	if downstream <= 0 {
		downstream = defaults.DownstreamTimeout
	}
	if write <= 0 {
		write = defaults.ServerWriteTimeout
	}
	return downstream, write
}

// handlerTimeout places the relay deadline halfway between the downstream
// and write timeouts, capped at defaults.RelayHandlerTimeout.
func (c *Config) handlerTimeout() time.Duration {
	downstream, write := c.effectiveTimeouts()
	return min(downstream+(write-downstream)/2, defaults.RelayHandlerTimeout)
}

// RelayConfig returns the relay handler settings.
func (c *Config) RelayConfig() relay.Config {
	return relay.Config{
		DownstreamURL:  c.Downstream.URL,
		Timeout:        c.Downstream.Timeout,
		HandlerTimeout: c.handlerTimeout(),
		MaxBodyBytes:   c.Server.MaxBodyBytes,
		Messages:       c.Messages.WithDefaults(),
	}
}
