// Package cli implements the hgschema command-line interface.
//
// # Commands
//
//   - schema: print the canonical viewconf JSON Schema
//   - check: validate viewconf files and report every issue
//   - fmt: parse a viewconf and print it as canonical JSON
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command context.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	hgschema "github.com/higlass/hgschema"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) { version = v }

// errInvalid is returned by check when at least one document is invalid.
var errInvalid = errors.New("invalid viewconf")

// parseFlags holds the document parsing flags shared by check and fmt.
type parseFlags struct {
	format        string
	failFast      bool
	maxDepth      int
	duplicateKeys string
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "auto", "input format: auto, json, jsonc or yaml")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "stop at the first issue")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum document nesting (0 disables)")
	cmd.Flags().StringVar(&f.duplicateKeys, "duplicate-keys", "ignore", "duplicate JSON keys: ignore, warn or error")
}

// options resolves the flags for the document at path.
func (f *parseFlags) options(path string) (hgschema.ParseOpt, error) {
	opt := hgschema.ParseOpt{FailFast: f.failFast, MaxDepth: f.maxDepth}
	switch strings.ToLower(f.format) {
	case "auto", "":
		opt.Format = hgschema.FormatFromPath(path)
	case "json":
		opt.Format = hgschema.FormatJSON
	case "jsonc":
		opt.Format = hgschema.FormatJSONC
	case "yaml", "yml":
		opt.Format = hgschema.FormatYAML
	default:
		return opt, fmt.Errorf("unknown format %q", f.format)
	}
	switch strings.ToLower(f.duplicateKeys) {
	case "ignore", "":
		opt.Strictness.OnDuplicateKey = hgschema.Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = hgschema.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = hgschema.Error
	default:
		return opt, fmt.Errorf("unknown duplicate key policy %q", f.duplicateKeys)
	}
	return opt, nil
}

// readInput reads path, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// newRootCommand builds the command tree. Logs go to stderr.
func newRootCommand(stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "hgschema",
		Short:         "Validate HiGlass viewconfs and export their JSON Schema",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(log.WithContext(cmd.Context(), newLogger(stderr, verbose)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSchemaCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newFmtCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := newRootCommand(os.Stderr)
	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errInvalid) {
		newLogger(os.Stderr, false).Error(err)
	}
	return err
}
