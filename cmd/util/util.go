package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/loeliger/clixon/lib/datastore"
	"github.com/loeliger/clixon/lib/yang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupDatastoreFlags adds the common datastore flags to a command
func SetupDatastoreFlags(cmd *cobra.Command) {
	key := "dbdir"
	cmd.PersistentFlags().String(key, "", WrapString("Directory holding the database files (one <name>_db file per database)"))

	key = "yangspec"
	cmd.PersistentFlags().String(key, "", WrapString("Path to the schema file describing the configuration tree (required for get and put)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("clixon")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetHandle creates a datastore handle from the bound configuration. The
// schema is parsed and attached only when a yangspec path is configured.
func GetHandle() (*datastore.Handle, error) {
	h := datastore.Connect(nil)

	if err := h.SetOption(datastore.OptDbDir, viper.GetString("dbdir")); err != nil {
		h.Disconnect()
		return nil, err
	}

	if path := viper.GetString("yangspec"); path != "" {
		spec, err := yang.ParseFile(path)
		if err != nil {
			h.Disconnect()
			return nil, err
		}
		if err := h.SetOption(datastore.OptYangSpec, spec); err != nil {
			h.Disconnect()
			return nil, err
		}
	}

	return h, nil
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
