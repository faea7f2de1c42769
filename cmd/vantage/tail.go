package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vantage/internal/api"
	"vantage/internal/config"
	"vantage/internal/source"
	"vantage/internal/stream"
)

type tailOptions struct {
	kind      string
	name      string
	lines     int
	filePath  string
	fromStart bool
	noFollow  bool
}

func newTailCommand(flags *rootFlags) *cobra.Command {
	opts := tailOptions{}

	cmd := &cobra.Command{
		Use:   "tail [pod|job] [name]",
		Short: "Stream logs for one target to stdout",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.filePath != "" {
				if len(args) != 0 {
					return fmt.Errorf("--file takes no positional arguments")
				}
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("expected a target kind (pod or job) and a name")
			}
			if args[0] != "pod" && args[0] != "job" {
				return fmt.Errorf("unknown target kind %q (want pod or job)", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.filePath == "" {
				opts.kind = args[0]
				opts.name = args[1]
			}
			return runTail(cmd.Context(), flags, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 500, "log window size")
	cmd.Flags().StringVar(&opts.filePath, "file", "", "follow a local log file instead of a platform target")
	cmd.Flags().BoolVar(&opts.fromStart, "from-start", false, "with --file, replay the existing file before following")
	cmd.Flags().BoolVar(&opts.noFollow, "no-follow", false, "fetch the current log tail and exit")

	return cmd
}

func runTail(ctx context.Context, flags *rootFlags, opts tailOptions) error {
	src, label, err := openTailSource(ctx, flags, opts)
	if err != nil {
		return err
	}

	printer := &deltaPrinter{w: os.Stdout}
	errCh := make(chan error, 1)

	handle, err := stream.Start(src, opts.lines, printer.update, func(err error) {
		errCh <- err
	})
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("start tail: %w", err)
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "tailing %s (ctrl+c to stop)\n", label)
	}

	select {
	case <-ctx.Done():
		handle.Cancel()
		<-handle.Done()
		return nil
	case <-handle.Done():
	}

	select {
	case err := <-errCh:
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("%s", text.FgRed.Sprintf("tail %s: %v", label, err))
		}
		return fmt.Errorf("tail %s: %w", label, err)
	default:
		return nil
	}
}

// openTailSource resolves the flags into a byte stream and a display label.
func openTailSource(ctx context.Context, flags *rootFlags, opts tailOptions) (io.ReadCloser, string, error) {
	if opts.filePath != "" {
		src, err := source.OpenFile(opts.filePath, source.FileOptions{FromStart: opts.fromStart})
		if err != nil {
			return nil, "", fmt.Errorf("open file: %w", err)
		}
		return src, opts.filePath, nil
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	client, err := api.NewClient(cfg.APIURL, cfg.Token)
	if err != nil {
		return nil, "", fmt.Errorf("init api client: %w", err)
	}

	query := api.LogStreamQuery{Follow: !opts.noFollow, TailLines: opts.lines}
	label := opts.kind + "/" + opts.name

	var src io.ReadCloser
	if opts.kind == "job" {
		src, err = client.OpenJobLogStream(ctx, opts.name, query)
	} else {
		src, err = client.OpenPodLogStream(ctx, opts.name, query)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open log stream for %s: %w", label, err)
	}
	return src, label, nil
}

// deltaPrinter writes only the lines added since the previous window update.
type deltaPrinter struct {
	w    io.Writer
	prev []string
}

func (p *deltaPrinter) update(lines []string) {
	for _, line := range newLines(p.prev, lines) {
		fmt.Fprintln(p.w, line)
	}
	p.prev = lines
}

// newLines returns the suffix of cur that was not present in prev. The
// window grows at the back and evicts at the front, so some suffix of prev
// is a prefix of cur; the longest such overlap marks where the new lines
// start. Every update carries at least one new line, so the overlap never
// covers all of cur.
func newLines(prev, cur []string) []string {
	max := len(prev)
	if max > len(cur)-1 {
		max = len(cur) - 1
	}
	for k := max; k > 0; k-- {
		if slices.Equal(prev[len(prev)-k:], cur[:k]) {
			return cur[k:]
		}
	}
	return cur
}
