package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/sandbox"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop a running sandbox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		sandboxDir := filepath.Join(root, artifact.SandboxDirName)

		state, err := sandbox.LoadState(sandboxDir)
		if err != nil {
			if os.IsNotExist(err) {
				printResult(map[string]any{"stopped": false, "reason": "no running sandbox found"}, func() {
					fmt.Println("No running sandbox found.")
				})
				return nil
			}
			return err
		}

		if state.Provider == sandbox.ProviderCompose {
			p := sandbox.NewComposeProvider()
			p.SetLogger(newLogger())
			plan := &sandbox.Plan{
				Provider:   state.Provider,
				SandboxDir: sandboxDir,
				Descriptor: filepath.Join(sandboxDir, sandbox.ComposeFileName),
			}
			if err := p.Down(cmd.Context(), plan); err != nil {
				return err
			}
		} else {
			sandbox.RemoveState(sandboxDir)
		}

		printResult(map[string]any{"stopped": true, "provider": state.Provider}, func() {
			fmt.Println("Sandbox stopped.")
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}
