package db

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [database] [path]",
		Short: "Reads the configuration tree of a database, optionally filtered by a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbName := args[0]
			query := "/"
			if len(args) == 2 {
				query = args[1]
			}
			tree, err := handle.Get(dbName, query, viper.GetBool("config-only"))
			if err != nil {
				return err
			}
			tree.Dump(os.Stdout)
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump [database] [prefix]",
		Short: "Prints the raw stored key-value pairs of a database",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbName := args[0]
			prefix := ""
			if len(args) == 2 {
				prefix = args[1]
			}
			entries, err := handle.Dump(dbName, prefix)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.HasValue {
					fmt.Printf("%s = %s\n", e.Key, e.Value)
				} else {
					fmt.Println(e.Key)
				}
			}
			return nil
		},
	}
	initCmd = &cobra.Command{
		Use:   "init [database]",
		Short: "Creates an empty database, replacing any previous content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := handle.Create(args[0]); err != nil {
				return err
			}
			fmt.Println("initialized successfully")
			return nil
		},
	}
	rmCmd = &cobra.Command{
		Use:   "rm [database]",
		Short: "Deletes a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := handle.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
	existsCmd = &cobra.Command{
		Use:   "exists [database]",
		Short: "Checks if a database has been created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := handle.Exists(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("database=%s, exists=%t\n", args[0], exists)
			return nil
		},
	}
	copyCmd = &cobra.Command{
		Use:   "copy [from] [to]",
		Short: "Copies one database over another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := handle.Copy(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("copied successfully")
			return nil
		},
	}
)

func init() {
	getCmd.Flags().Bool("config-only", false, "Return configuration data only, pruning state subtrees")
}
