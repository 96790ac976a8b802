package main

import (
	"os"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/cli"
	inframcp "github.com/felixgeelhaar/daybrief/internal/infrastructure/mcp"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.Date = version, commit, date
	cli.RootCmd.Version = version
	inframcp.Version, inframcp.BuildCommit, inframcp.BuildDate = version, commit, date

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
