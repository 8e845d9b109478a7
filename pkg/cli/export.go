package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/portability"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the generated mock spec as an OpenAPI 3 document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}

		_, ms, err := artifact.Load(artifact.Dir(root))
		if err != nil {
			return fmt.Errorf("no mock server artifact found, run 'mockbox generate' first: %w", err)
		}

		doc, err := portability.ExportOpenAPI(ms)
		if err != nil {
			return err
		}

		var data []byte
		switch exportFormat {
		case "json", "":
			data, err = json.MarshalIndent(doc, "", "  ")
		case "yaml", "yml":
			var raw []byte
			raw, err = doc.MarshalJSON()
			if err == nil {
				var tree map[string]any
				if err = json.Unmarshal(raw, &tree); err == nil {
					data, err = yaml.Marshal(tree)
				}
			}
		default:
			return fmt.Errorf("unknown export format %q (json or yaml)", exportFormat)
		}
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("OpenAPI document written to %s\n", exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json or yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
