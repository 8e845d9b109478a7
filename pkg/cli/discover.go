package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/discovery"
	"github.com/getmockd/mockbox/pkg/project"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the project and list discovered API call sites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}

		p, err := project.Detect(root)
		if err != nil {
			return err
		}

		log := newLogger()
		agg := discovery.NewAggregator(discovery.DefaultScanners(), log)
		result, err := agg.Discover(cmd.Context(), p)
		if err != nil {
			return err
		}

		printResult(result, func() {
			fmt.Printf("Project: %s (%s)\n\n", p.Name, p.Framework)
			if len(result.REST) == 0 && len(result.GraphQL) == 0 {
				fmt.Println("No API call sites found.")
			}
			for _, ep := range result.REST {
				fmt.Printf("  %-6s %s\n", ep.Method, ep.Path)
			}
			for _, op := range result.GraphQL {
				fmt.Printf("  %-6s %s (%s %s)\n", "GQL", op.Endpoint, op.OperationType, op.OperationName)
			}
			if len(result.BaseURLs) > 0 {
				fmt.Printf("\nBase URLs: %v\n", result.BaseURLs)
			}
			for _, note := range result.Notes {
				fmt.Printf("note: %s\n", note)
			}
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
