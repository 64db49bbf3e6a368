package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/config"
	"github.com/anantraj07/gold-analysis-project/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage goldstat configuration",
	Long: `Read and write goldstat configuration stored in config.json.

Settings resolve in this order, later winning: built-in defaults,
config.json (or --config PATH), GOLDSTAT_* environment variables such as
GOLDSTAT_CONFIDENCE=0.99, then command-line flags.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if globalFlags.Config != "" {
			path = globalFlags.Config
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "  Edit value_column and date_column to match your CSV headers.")
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(globalFlags.Config, cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}
		rows := cfg.Rows()

		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()

		switch globalFlags.Format {
		case render.FormatJSON:
			out := make(map[string]string, len(rows))
			for _, r := range rows {
				out[r[0]] = r[1]
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		case "", render.FormatTable:
			printSimpleTable(w, []string{"Key", "Value"}, func(add func(...string)) {
				for _, r := range rows {
					add(r...)
				}
			})
			return nil
		default:
			printKVTableTo(w, rows)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
}
