package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/config"
	"github.com/getmockd/mockbox/pkg/pipeline"
	"github.com/getmockd/mockbox/pkg/sandbox"
	"github.com/getmockd/mockbox/pkg/synth"
)

var (
	runProvider   string
	runAppPort    int
	runMockPort   int
	runNoAI       bool
	runAIProvider string
	runAIModel    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Detect, discover, synthesize, and start the sandbox in one go",
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
		res, err := runner.RunAll(cmd.Context())
		if err != nil {
			return err
		}

		printResult(map[string]any{
			"appUrl":  res.Services.AppURL,
			"mockUrl": res.Services.MockURL,
			"rest":    len(res.MockSpec.REST),
			"graphql": len(res.MockSpec.GraphQL),
		}, func() {
			fmt.Printf("Sandbox up.\n  app:  %s\n  mock: %s\n", res.Services.AppURL, res.Services.MockURL)
			fmt.Println("Run 'mockbox down' to stop it.")
		})
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runProvider, "provider", "", "Sandbox provider (compose or noop)")
	runCmd.Flags().IntVar(&runAppPort, "app-port", 0, "Application dev-server port")
	runCmd.Flags().IntVar(&runMockPort, "mock-port", 0, "Mock server port")
	runCmd.Flags().BoolVar(&runNoAI, "no-ai", false, "Skip the AI collaborator and use deterministic fallbacks")
	runCmd.Flags().StringVar(&runAIProvider, "ai-provider", "", "AI provider (ollama or openai)")
	runCmd.Flags().StringVar(&runAIModel, "ai-model", "", "AI model identifier")
	rootCmd.AddCommand(runCmd)
}

// pipelineConfig merges config file settings with command-line flags.
func pipelineConfig(root string, cfg *config.File) pipeline.Config {
	opts := cfg.SandboxOptions()
	if runAppPort != 0 {
		opts.AppPort = runAppPort
	}
	if runMockPort != 0 {
		opts.MockPort = runMockPort
	}

	provider := cfg.Sandbox.Provider
	if runProvider != "" {
		provider = runProvider
	}

	pc := pipeline.Config{
		Root:     root,
		Provider: provider,
		Sandbox:  opts,
		AI:       aiConfig(cfg),
		Logger:   newLogger(),
	}
	if !jsonOutput {
		pc.Observer = progressObserver()
	}
	return pc
}

// aiConfig resolves the collaborator configuration; nil disables it.
func aiConfig(cfg *config.File) *ai.Config {
	if runNoAI {
		return nil
	}
	ac := cfg.AIProviderConfig()
	if runAIProvider != "" {
		ac.Provider = runAIProvider
	}
	if runAIModel != "" {
		ac.Model = runAIModel
	}
	return ac
}

// progressObserver prints one line per lifecycle event.
func progressObserver() pipeline.Observer {
	return func(e pipeline.Event) {
		switch e.Name {
		case pipeline.EventDetected:
			fmt.Println("✓ project detected")
		case pipeline.EventDiscovered:
			fmt.Println("✓ API call sites discovered")
		case pipeline.EventSynthRequest:
			if req, ok := e.Payload.(synth.RequestEvent); ok {
				fmt.Printf("  synthesizing %s (%d/%d)\n", req.Key, req.Index, req.Total)
			}
		case pipeline.EventSynthResponse:
			if resp, ok := e.Payload.(synth.ResponseEvent); ok && resp.Fallback {
				fmt.Printf("  ! fallback used for %s\n", resp.Key)
			}
		case pipeline.EventArtifactsWritten:
			fmt.Println("✓ mock server artifacts written")
		case pipeline.EventServicesUp:
			if rs, ok := e.Payload.(*sandbox.RunningServices); ok {
				fmt.Printf("✓ services up (mock at %s)\n", rs.MockURL)
			}
		}
	}
}
