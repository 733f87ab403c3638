// Package main is the entry point of the sunspot CLI.
package main

import (
	"github.com/huangsam/sunspot/cmd"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
