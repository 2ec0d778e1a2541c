package main

import (
	"fmt"
	"os"

	"github.com/m04kA/SMC-TourBookingService/cmd/commands"
)

// Версия проставляется при сборке через -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
