package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddr, "127.0.0.1:41400")
	assert.Equal(t, c.DataDir, "server_data")
	assert.Equal(t, c.Domain, "glo2000.ca")
	assert.Equal(t, c.IdleTimeout, 5*time.Minute)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddr, "127.0.0.1:41400")
	assert.Equal(t, c.DataDir, "server_data")
	assert.Equal(t, c.Domain, "glo2000.ca")
	assert.Equal(t, c.IdleTimeout, 5*time.Minute)
}
