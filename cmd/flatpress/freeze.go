package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/flatpress"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Render every page to a static file tree",
	Long: `Render the home page, each post, the static pages and the feeds through
the in-process router and write them under the output directory, together
with uploaded media and the bundled assets.`,
	RunE: runFreeze,
}

func init() {
	freezeCmd.Flags().StringP("out", "o", "", "output directory (default $FREEZE_DIR or build)")
}

func runFreeze(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = flatpress.EnvOr("FREEZE_DIR", "build")
	}

	app, err := flatpress.New(flatpress.LoadConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Freeze(cmd.Context(), out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Froze %d pages and %d assets into %s\n", report.Pages, report.Assets, report.OutDir)
	return nil
}
