package main

import (
	"os"

	"go.uber.org/zap"

	"disasterprep/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	_ = zap.L().Sync()
	if err != nil {
		os.Exit(1)
	}
}
