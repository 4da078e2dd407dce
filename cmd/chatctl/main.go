// Command chatctl exercises the chatbot pipeline from a terminal: inspect
// routing decisions, ask questions, index documents and follow turn events.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Debug and operate the HCP chatbot",
	Long: `chatctl talks to the same configuration (.env) as the REST service.

Available subcommands:
  route  - Show the routing decision for a question
  ask    - Run full turns (interactive when no question is given)
  ingest - Split, embed and store a document
  watch  - Follow turn-completed events from NATS`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print the full decision as JSON")
	rootCmd.AddCommand(routeCmd, askCmd, ingestCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
