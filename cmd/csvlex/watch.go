package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flowcsv/csvlex/streamasm"
	"github.com/flowcsv/csvlex/streamlex"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Tail a growing CSV file, emitting JSON Lines as records complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newCancellableContext()
			defer cancel()
			return runWatch(ctx, args[0], cmd.OutOrStdout())
		},
	}
}

// newCancellableContext cancels on SIGINT/SIGTERM, so Ctrl+C flushes the
// pipeline's in-flight buffer instead of dropping it.
func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}

// runWatch tails path with fsnotify, feeding every appended byte through
// the same chunked lexer/assembler pipeline parse uses. It reads whatever
// is already in the file first, then blocks on Write events until ctx is
// canceled, at which point the channel closes and the pipeline flushes.
func runWatch(ctx context.Context, path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	lexAdapter, err := streamlex.New(streamlex.Options{Lexer: lexerOptions()})
	if err != nil {
		return err
	}
	asmAdapter, err := streamasm.New(streamasm.Options{Assembler: assemblerOptions()})
	if err != nil {
		return err
	}

	// The adapters run on a context that ctx's cancellation does not reach:
	// they stop when chunks closes, flushing whatever they still hold.
	chunks := make(chan string)
	pipeCtx := context.WithoutCancel(ctx)
	tokens, lexErrc := lexAdapter.Run(pipeCtx, chunks)
	records, asmErrc := asmAdapter.Run(pipeCtx, tokens)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		cr := newChunkReader(f)
		drain := func() error {
			for {
				chunk, err := cr.next()
				if chunk != "" {
					if strings.ContainsRune(chunk, utf8.RuneError) {
						log.Printf("csvlex: watch %s: read an invalid or partial multi-byte character, likely raced a concurrent write; passing it on as U+FFFD", path)
					}
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
		}
		if err := drain(); err != nil {
			return err
		}
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := drain(); err != nil {
						return err
					}
				}
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					return nil
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return werr
			case <-gctx.Done():
				return gctx.Err()
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

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
