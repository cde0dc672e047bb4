package cmd

import (
	"fmt"
	"os"

	"github.com/loeliger/clixon/cmd/db"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "clixon-kv",
		Short: "key-value configuration datastore",
		Long: fmt.Sprintf(`clixon-kv (v%s)

A configuration datastore backend that stores schema-typed
configuration trees in flat, sorted key-value database files.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of clixon-kv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clixon-kv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(db.DatastoreCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
