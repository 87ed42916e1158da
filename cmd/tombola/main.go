package main

import (
	"os"

	"github.com/osse101/tombola/internal/cli"
	"github.com/osse101/tombola/internal/logger"
)

func main() {
	// Replaced by the configured logger once serve has loaded its config
	logger.InitLogger(logger.DefaultConfig())

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
