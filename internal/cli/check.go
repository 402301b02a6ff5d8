package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/viewconf"
)

func newCheckCmd() *cobra.Command {
	var pf parseFlags
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate viewconf files",
		Long:  "Validate viewconf files and report every failing path. Use - to read standard input.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			rep := newReport(cmd.OutOrStdout())
			run := newBatch(logger)

			for _, path := range args {
				opt, err := pf.options(path)
				if err != nil {
					return err
				}
				data, err := readInput(cmd, path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				logger.Debug("checking", "path", path, "format", opt.Format)
				if opt.Format != hgschema.FormatYAML && opt.Strictness.OnDuplicateKey == hgschema.Warn {
					warnDuplicates(cmd, path, data, opt)
				}
				_, err = viewconf.Parse(ctx, data, opt)
				if err == nil {
					run.record(path, 0)
					rep.ok(path)
					continue
				}
				iss, ok := hgschema.AsIssues(err)
				if !ok {
					return fmt.Errorf("check %s: %w", path, err)
				}
				run.record(path, len(iss))
				rep.failed(path, iss)
			}
			rep.summary(run.files, run.invalid)
			run.finish()
			if run.invalid > 0 {
				return errInvalid
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func warnDuplicates(cmd *cobra.Command, path string, data []byte, opt hgschema.ParseOpt) {
	logger := log.FromContext(cmd.Context())
	src := data
	if opt.Format == hgschema.FormatJSONC {
		src = jsonc.ToJSON(data)
	}
	found, err := hgschema.DetectDuplicateKeys(src, opt.Strictness, -1)
	if err != nil {
		logger.Debug("duplicate key scan failed", "path", path, "err", err)
		return
	}
	for _, it := range found {
		logger.Warn("duplicate key", "path", path, "at", it.Path)
	}
}
