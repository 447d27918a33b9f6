package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suncoast/sitegen/internal/build"
	"github.com/suncoast/sitegen/internal/lint"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lints content without building",
	Long: `The check command loads the content and reports authoring defects:
malformed cost ranges, non-contiguous process steps, breadcrumb trails that
do not end at their page, empty FAQ entries and related links to routes that
do not exist. It exits non-zero when any error-level finding is reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, findings, err := build.New(appConfig, logger, nil).Prepare()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range findings {
			fmt.Fprintln(out, f.String())
		}
		if lint.HasErrors(findings) {
			return build.ErrLint
		}
		fmt.Fprintf(out, "%d finding(s), no errors\n", len(findings))
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Prints the route manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manifest, _, err := build.New(appConfig, logger, nil).Prepare()
		if err != nil {
			return err
		}
		for _, r := range manifest.Routes() {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(routesCmd)
}
