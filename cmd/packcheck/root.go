package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/milk9111/patchanim/pack"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
)

var validFormats = []string{"text", "yaml"}

var errInvalid = errors.New("packcheck: content packs have problems")

type options struct {
	Format string
	Copy   bool
}

// copyText places b on the system clipboard.
var copyText = func(b []byte) error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, b)
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "packcheck [packs-dir]",
		Short: "Validate content packs and list their animated patches",
		Long: `Load every content pack under a directory (default "packs"), print
each pack's animated patches with their frame interval and count, and
exit non-zero when a pack fails to load or an animated patch is invalid.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "packs"
			if len(args) == 1 {
				dir = args[0]
			}
			return run(opts, dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|yaml)")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "also copy the report to the clipboard")
	return cmd
}

func run(opts *options, dir string, stdout, stderr io.Writer) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("packcheck: %w", err)
	}

	packs, loadErr := pack.LoadAll(os.DirFS(dir), ".")
	if loadErr != nil {
		fmt.Fprintf(stderr, "%v\n", loadErr)
	}
	reports := pack.BuildReport(packs)

	var buf bytes.Buffer
	var err error
	switch opts.Format {
	case "yaml":
		err = pack.WriteReportYAML(&buf, reports)
	default:
		err = pack.WriteReport(&buf, reports)
	}
	if err != nil {
		return err
	}
	if _, err := stdout.Write(buf.Bytes()); err != nil {
		return err
	}

	if opts.Copy {
		if err := copyText(buf.Bytes()); err != nil {
			fmt.Fprintf(stderr, "packcheck: clipboard: %v\n", err)
		}
	}

	if n := pack.Invalid(reports); loadErr != nil || n > 0 {
		return fmt.Errorf("%w: %d invalid animated patches", errInvalid, n)
	}
	return nil
}
