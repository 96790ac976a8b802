package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "daybrief",
	Version: Version,
	Short:   "Rank work items and lay out the day",
	Long: `Daybrief is a decision engine for a personal work list.
It answers three questions:
1. Which three items matter most right now?
2. How should today's focus time be spent?
3. How urgent and how large is a new item likely to be?`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		printError(RootCmd.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if cliErr, ok := err.(*CLIError); ok && cliErr.Hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./daybrief.yaml)")
}
