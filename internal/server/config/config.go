// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GophMail server.
//
// Fields:
//   - EndpointAddr: bind address for the TCP listener.
//   - DataDir: root directory of the mailbox store.
//   - Domain: the single mail domain this server is authoritative for.
//   - IdleTimeout: per-connection idle read deadline; 0 disables it.
type Config struct {
	EndpointAddr string
	DataDir      string
	Domain       string
	IdleTimeout  time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "127.0.0.1:41400"
	c.DataDir = "server_data"
	c.Domain = "glo2000.ca"
	c.IdleTimeout = 5 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
