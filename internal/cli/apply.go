package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codegenie-labs/codegenie/internal/config"
	"github.com/codegenie-labs/codegenie/internal/manifest"
	"github.com/codegenie-labs/codegenie/internal/scaffold"
)

func newApplyCmd() *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "apply <manifest.yaml>",
		Short: "Generate every artifact listed in a manifest",
		Long: `Generate a batch of artifacts described in a YAML manifest. The manifest is
checked against the built-in JSON Schema first.

Each artifact is written to its own "output" path (default <name>.<extension>)
under "output_dir". A top-level "output" bundles every artifact into one
module instead.

Example manifest:
  output_dir: src
  artifacts:
    - kind: function
      name: add
      params: ["a:int", "b:int"]
      returns: int
      logic: return a + b
    - kind: exception
      name: ShapeError`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.ParseFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("manifest parsed",
				zap.String("path", args[0]),
				zap.Int("artifacts", len(m.Artifacts)),
				zap.Bool("bundled", m.Bundled()))

			if validateOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d artifacts)\n", args[0], len(m.Artifacts))
				return nil
			}

			pipeline, err := scaffold.FromSettings(config.Current(), logger)
			if err != nil {
				return err
			}
			written, failed, err := pipeline.Apply(m)
			for _, result := range written {
				_ = report(cmd, result, nil)
			}
			if err != nil {
				return report(cmd, failed, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validateOnly, "validate", false, "Only validate the manifest")
	return cmd
}
