package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/pipeline"
)

var synthesizeOutput string

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Discover call sites and synthesize a mock spec",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}

		runner := pipeline.New(pipelineConfig(root, cfg))

		p, err := runner.DetectProject(cmd.Context())
		if err != nil {
			return err
		}
		result, err := runner.DiscoverAPIs(cmd.Context(), p)
		if err != nil {
			return err
		}
		ms, err := runner.SynthesizeMockSpec(cmd.Context(), result)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(ms, "", "  ")
		if err != nil {
			return err
		}
		if synthesizeOutput == "" || synthesizeOutput == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(synthesizeOutput, data, 0o644); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("Mock spec written to %s (%d REST, %d GraphQL)\n",
				synthesizeOutput, len(ms.REST), len(ms.GraphQL))
		}
		return nil
	},
}

func init() {
	synthesizeCmd.Flags().StringVarP(&synthesizeOutput, "output", "o", "", "Write the mock spec to a file instead of stdout")
	synthesizeCmd.Flags().BoolVar(&runNoAI, "no-ai", false, "Skip the AI collaborator and use deterministic fallbacks")
	synthesizeCmd.Flags().StringVar(&runAIProvider, "ai-provider", "", "AI provider (ollama or openai)")
	synthesizeCmd.Flags().StringVar(&runAIModel, "ai-model", "", "AI model identifier")
	rootCmd.AddCommand(synthesizeCmd)
}
