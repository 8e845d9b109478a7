package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/sandbox"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the sandbox from previously generated artifacts",
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

		_, ms, err := artifact.Load(artifact.Dir(root))
		if err != nil {
			return fmt.Errorf("no mock server artifact found, run 'mockbox generate' first: %w", err)
		}

		p, err := project.Detect(root)
		if err != nil {
			return err
		}

		providerName := cfg.Sandbox.Provider
		if runProvider != "" {
			providerName = runProvider
		}
		provider, err := sandbox.New(providerName)
		if err != nil {
			return err
		}

		opts := cfg.SandboxOptions()
		if runAppPort != 0 {
			opts.AppPort = runAppPort
		}
		if runMockPort != 0 {
			opts.MockPort = runMockPort
		}

		plan, err := provider.Prepare(cmd.Context(), p, ms, opts)
		if err != nil {
			return err
		}
		services, err := provider.Up(cmd.Context(), plan)
		if err != nil {
			return err
		}

		printResult(map[string]any{
			"appUrl":  services.AppURL,
			"mockUrl": services.MockURL,
		}, func() {
			fmt.Printf("Sandbox up.\n  app:  %s\n  mock: %s\n", services.AppURL, services.MockURL)
		})
		return nil
	},
}

func init() {
	upCmd.Flags().StringVar(&runProvider, "provider", "", "Sandbox provider (compose or noop)")
	upCmd.Flags().IntVar(&runAppPort, "app-port", 0, "Application dev-server port")
	upCmd.Flags().IntVar(&runMockPort, "mock-port", 0, "Mock server port")
	rootCmd.AddCommand(upCmd)
}
