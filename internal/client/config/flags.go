package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-s string   server address (e.g., "127.0.0.1:41400")
//	-t int      dial timeout, seconds
//
// Only the flags handled here are parsed, via flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "s", config.ServerAddr, "server address")

	dialTimeout := fs.Int("t", int(config.DialTimeout.Seconds()), "dial timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DialTimeout = time.Duration(*dialTimeout) * time.Second
}
