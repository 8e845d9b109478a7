package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize a mock spec and write the mock server artifacts",
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
		manifest, err := runner.GenerateMockServer(p, ms)
		if err != nil {
			return err
		}

		printResult(manifest, func() {
			fmt.Printf("Artifacts written to %s\n", artifact.Dir(root))
			fmt.Printf("  %d REST mocks, %d GraphQL mocks, port %d\n",
				manifest.RESTCount, manifest.GraphQLCount, manifest.Port)
		})
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&runMockPort, "mock-port", 0, "Mock server port")
	generateCmd.Flags().BoolVar(&runNoAI, "no-ai", false, "Skip the AI collaborator and use deterministic fallbacks")
	generateCmd.Flags().StringVar(&runAIProvider, "ai-provider", "", "AI provider (ollama or openai)")
	generateCmd.Flags().StringVar(&runAIModel, "ai-model", "", "AI model identifier")
	rootCmd.AddCommand(generateCmd)
}
