package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/mockserver"
)

var (
	serveDir  string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a previously generated mock server artifact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := serveDir
		if dir == "" {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			dir = artifact.Dir(root)
		}

		manifest, ms, err := artifact.Load(dir)
		if err != nil {
			return fmt.Errorf("loading artifact from %s (run 'mockbox generate' first?): %w", dir, err)
		}
		if servePort != 0 {
			manifest.Port = servePort
		}

		log := newLogger()
		srv := mockserver.FromManifest(manifest, ms, log)
		if err := srv.Start(); err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("Mock server on http://localhost:%d (%d REST, %d GraphQL)\n",
				srv.Port(), len(ms.REST), len(ms.GraphQL))
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "Artifact directory (default <root>/.sandbox/mock-server)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the manifest's listen port")
	rootCmd.AddCommand(serveCmd)
}
