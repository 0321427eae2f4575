package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFiles   []string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "loginbot",
	Short: "loginbot keeps panel accounts alive by logging into them in daily batches.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "The json5 config file, a sibling <name>.local.json5 overrides it.")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", []string{".env"}, "Dotenv files loaded before reading the environment.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
