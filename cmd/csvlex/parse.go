package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/spf13/cobra"

	"github.com/flowcsv/csvlex/streamasm"
	"github.com/flowcsv/csvlex/streamlex"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a CSV file (or stdin) into header-keyed JSON Lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runParse(cmd.Context(), in, cmd.OutOrStdout())
		},
	}
}

// runParse wires a byte reader through the chunk reader, the streaming
// lexer adapter, and the streaming assembler adapter, writing each
// resulting record as a JSON Lines object to w.
func runParse(ctx context.Context, r io.Reader, w io.Writer) error {
	lexAdapter, err := streamlex.New(streamlex.Options{Lexer: lexerOptions()})
	if err != nil {
		return err
	}
	asmAdapter, err := streamasm.New(streamasm.Options{Assembler: assemblerOptions()})
	if err != nil {
		return err
	}

	chunks := make(chan string)
	tokens, lexErrc := lexAdapter.Run(ctx, chunks)
	records, asmErrc := asmAdapter.Run(ctx, tokens)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		cr := newChunkReader(r)
		for {
			chunk, err := cr.next()
			if chunk != "" {
				select {
				case chunks <- chunk:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
	})

	g.Go(func() error {
		for rec := range records {
			line, err := encodeRecord(rec)
			if err != nil {
				return err
			}
			if _, err := w.Write(line); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error { return <-lexErrc })
	g.Go(func() error { return <-asmErrc })

	return g.Wait()
}
