// Package main is the entry point for mediabridge.
package main

import (
	"time"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/cmd"
	"github.com/tvxlabs/mediabridge/config"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Sockets left behind by players that did not shut down cleanly.
	go filesystem.Prune(where.Temp(), 24*time.Hour, time.Now())

	cmd.Execute()
}
