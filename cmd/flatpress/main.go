package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "flatpress",
	Short: "flatpress - a flat-file blog served with Go, Echo, and templ",
	Long: `flatpress serves a blog whose posts are plain files on disk.

Configuration comes from environment variables; a .env file in the working
directory is loaded first when present.

Examples:
  flatpress init myblog          # Create a new site directory
  flatpress serve                # Run the web server
  flatpress freeze --out build   # Render the site to static files`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the flatpress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flatpress %s\n", version)
	},
}

func main() {
	rootCmd.Version = version
	rootCmd.AddCommand(serveCmd, freezeCmd, initCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
