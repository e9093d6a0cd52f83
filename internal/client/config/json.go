package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/flagx"
	"github.com/dmitrijs2005/gophmail/internal/timex"
)

// JsonConfig is the DTO for reading client configuration files. It uses
// timex.Duration so intervals can be written as "5s" or as integer
// nanoseconds.
type JsonConfig struct {
	ServerAddr  string         `json:"server_addr"`
	DialTimeout timex.Duration `json:"dial_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags, if any. A requested but unreadable file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ServerAddr = c.ServerAddr
	config.DialTimeout = time.Duration(c.DialTimeout.Duration)
}
