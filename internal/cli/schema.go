package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/higlass/hgschema/viewconf"
)

func newSchemaCmd() *cobra.Command {
	var (
		indent int
		asYAML bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the canonical viewconf JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.FromContext(cmd.Context())
			var opts []viewconf.SchemaOption
			switch {
			case asYAML:
				opts = append(opts, viewconf.WithYAML())
			case indent > 0:
				opts = append(opts, viewconf.WithIndent("", strings.Repeat(" ", indent)))
			}
			b, err := viewconf.SchemaJSON(opts...)
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}
			if !asYAML {
				b = append(b, '\n')
			}
			if output != "" {
				if err := os.WriteFile(output, b, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				logger.Info("wrote schema", "path", output, "bytes", len(b))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().IntVar(&indent, "indent", 0, "indent JSON output by this many spaces")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
