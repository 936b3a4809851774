// Package main is the entry point for the waverip application.
package main

import (
	"github.com/samber/lo"
	"github.com/waverip-cli/waverip/cmd"
	"github.com/waverip-cli/waverip/config"
	"github.com/waverip-cli/waverip/internal/cache"
	"github.com/waverip-cli/waverip/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background maintenance of the search cache.
	go cache.CollectGarbage()

	cmd.Execute()
}
