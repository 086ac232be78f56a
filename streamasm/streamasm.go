// Package streamasm wraps csvlex.Assembler as a backpressure-aware
// streaming transform stage (spec.md §4.5), the mirror image of
// streamlex: tokens in, records out, with the identical channel/errgroup/
// cooperative-yield shape.
package streamasm

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/flowcsv/csvlex"
	"github.com/flowcsv/csvlex/internal/cooperative"
)

// Default backpressure thresholds (spec.md §4.5).
const (
	DefaultInputHighWaterMark  = 1024 // tokens
	DefaultOutputHighWaterMark = 256  // records
	DefaultCheckInterval       = 100  // records between cooperative yields
)

// Options configures an Adapter.
type Options struct {
	Assembler csvlex.AssemblerOptions

	InputHighWaterMark  int
	OutputHighWaterMark int
	CheckInterval       int
}

func (o Options) withDefaults() Options {
	if o.InputHighWaterMark == 0 {
		o.InputHighWaterMark = DefaultInputHighWaterMark
	}
	if o.OutputHighWaterMark == 0 {
		o.OutputHighWaterMark = DefaultOutputHighWaterMark
	}
	if o.CheckInterval == 0 {
		o.CheckInterval = DefaultCheckInterval
	}
	return o
}

// Adapter wraps one csvlex.Assembler as a transform stage. Single-use:
// call Run once.
type Adapter struct {
	opts      Options
	assembler *csvlex.Assembler
}

// New validates opts and constructs an Adapter.
func New(opts Options) (*Adapter, error) {
	opts = opts.withDefaults()
	asm, err := csvlex.NewAssembler(opts.Assembler)
	if err != nil {
		return nil, err
	}
	return &Adapter{opts: opts, assembler: asm}, nil
}

// Run consumes tokens from in until it is closed, then flushes the
// assembler. It returns a record channel, closed when the stream ends,
// and an error channel that receives at most one value.
func (a *Adapter) Run(ctx context.Context, in <-chan csvlex.Token) (<-chan csvlex.Record, <-chan error) {
	out := make(chan csvlex.Record, a.opts.OutputHighWaterMark)
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(out)

		yield := cooperative.NewYielder(a.opts.CheckInterval)
		emit := func(records []csvlex.Record) error {
			for _, rec := range records {
				select {
				case out <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
				if len(out) == cap(out) {
					yield.Tick(runtime.Gosched)
				} else {
					yield.Tick(nil)
				}
			}
			return nil
		}

		for {
			select {
			case tok, ok := <-in:
				if !ok {
					records, err := a.assembler.Assemble(nil, false)
					if err != nil {
						return err
					}
					return emit(records)
				}
				records, err := a.assembler.Assemble([]csvlex.Token{tok}, true)
				if err != nil {
					return err
				}
				if err := emit(records); err != nil {
					return err
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	go func() {
		errc <- g.Wait()
		close(errc)
	}()

	return out, errc
}
