package db

import (
	"github.com/loeliger/clixon/cmd/util"
	"github.com/loeliger/clixon/lib/datastore"
	"github.com/spf13/cobra"
)

var (
	handle *datastore.Handle

	// DatastoreCommands represents the datastore command group
	DatastoreCommands = &cobra.Command{
		Use:               "db",
		Short:             "Inspect and manage configuration databases",
		PersistentPreRunE: setupHandle,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common datastore flags to the db command
	util.SetupDatastoreFlags(DatastoreCommands)

	// Add subcommands
	DatastoreCommands.AddCommand(getCmd)
	DatastoreCommands.AddCommand(dumpCmd)
	DatastoreCommands.AddCommand(initCmd)
	DatastoreCommands.AddCommand(rmCmd)
	DatastoreCommands.AddCommand(existsCmd)
	DatastoreCommands.AddCommand(copyCmd)
}

// setupHandle creates the datastore handle from flags and environment
func setupHandle(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	handle, err = util.GetHandle()
	return err
}
