package cmd

import (
	"github.com/spf13/cobra"

	"github.com/suncoast/sitegen/internal/build"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from content, layouts, and static assets",
	Long: `The build command loads page configurations from the content directory,
lints them, renders every route with its JSON-LD documents into the output
directory (default './public/'), copies './static/', writes sitemap.xml and
robots.txt, and fails if a rendered page links to a route that does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := build.New(appConfig, logger, nil).Build(cmd.Context())
		return err
	},
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory (overrides outputDir)")
	rootCmd.AddCommand(buildCmd)
}
