package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by the MCP server and the version flag.
var Version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:           "notemind",
		Short:         "Markdown notes with sections, flash cards and semantic search",
		Long:          "notemind turns pasted text into markdown pages organised by subject, splits them into sections, generates flash cards and serves them over REST and MCP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flagConfig string
)

// Execute runs the root command.
func Execute() error {
	registerCommands()
	return rootCmd.Execute()
}

// RootCommand returns the configured root command; primarily for testing scenarios.
func RootCommand() *cobra.Command {
	registerCommands()
	return rootCmd
}

// registerCommands ensures all subcommands are attached before execution.
func registerCommands() {
	if len(rootCmd.Commands()) > 0 {
		return
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newSectionsCommand())
}

// readInput reads the file named by args, or stdin when there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
