package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/viewconf"
)

func newFmtCmd() *cobra.Command {
	var (
		pf     parseFlags
		indent int
		write  bool
	)
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a viewconf as canonical JSON",
		Long:  "Parse a viewconf, apply defaults and drop ignored fields, and print it as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			logger := log.FromContext(cmd.Context())
			opt, err := pf.options(path)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			vc, err := viewconf.Parse(cmd.Context(), data, opt)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			var out []byte
			if indent > 0 {
				out, err = hgschema.MarshalIndent(vc, "", strings.Repeat(" ", indent))
			} else {
				out, err = hgschema.Marshal(vc)
			}
			if err != nil {
				return fmt.Errorf("serialize %s: %w", path, err)
			}
			out = append(out, '\n')
			if write && path != "-" {
				if err := os.WriteFile(path, out, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				logger.Info("formatted", "path", path)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	pf.register(cmd)
	cmd.Flags().IntVar(&indent, "indent", 2, "indent by this many spaces (0 for compact output)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}
