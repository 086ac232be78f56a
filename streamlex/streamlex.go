// Package streamlex wraps csvlex.Lexer as a backpressure-aware streaming
// transform stage (spec.md §4.4): character chunks in, tokens out, driven
// by goroutines and channels the way the teacher's own chunked pipeline
// (simdcsv.Reader.readAllStreaming) stages chunk-in/record-out work across
// channels and a sync.WaitGroup — here replaced by
// golang.org/x/sync/errgroup, which collapses that wait-group-plus-error-
// channel boilerplate into one call (see ccuetoh-maqui-lang/pkg/compiler.go
// for the pack's own errgroup usage this is grounded on).
package streamlex

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/flowcsv/csvlex"
	"github.com/flowcsv/csvlex/internal/cooperative"
)

// Default backpressure thresholds (spec.md §4.4).
const (
	DefaultInputHighWaterMark  = 64 * 1024 // characters
	DefaultOutputHighWaterMark = 1024      // tokens
	DefaultCheckInterval       = 100       // tokens between cooperative yields
)

// Options configures an Adapter.
type Options struct {
	Lexer csvlex.Options

	// InputHighWaterMark is advisory: it sizes the suggested buffering of
	// any chunk-producing channel upstream of Run, counted in characters.
	InputHighWaterMark int
	// OutputHighWaterMark sizes the token channel Run returns, counted in
	// tokens.
	OutputHighWaterMark int
	// CheckInterval is how many tokens the adapter emits between
	// cooperative scheduler yields while the output side is applying
	// backpressure.
	CheckInterval int
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

// Adapter wraps one csvlex.Lexer as a transform stage. An Adapter is
// single-use: call Run once.
type Adapter struct {
	opts  Options
	lexer *csvlex.Lexer
}

// New validates opts and constructs an Adapter.
func New(opts Options) (*Adapter, error) {
	opts = opts.withDefaults()
	lexer, err := csvlex.NewLexer(opts.Lexer)
	if err != nil {
		return nil, err
	}
	return &Adapter{opts: opts, lexer: lexer}, nil
}

// Run consumes chunks from in until it is closed, then flushes the lexer.
// It returns a token channel, closed when the stream ends (successfully or
// not), and an error channel that receives at most one value. Canceling
// ctx, or in closing without ever sending a final chunk, both drain
// cleanly: ctx cancellation surfaces as the error; plain closure flushes
// normally.
func (a *Adapter) Run(ctx context.Context, in <-chan string) (<-chan csvlex.Token, <-chan error) {
	out := make(chan csvlex.Token, a.opts.OutputHighWaterMark)
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(out)

		yield := cooperative.NewYielder(a.opts.CheckInterval)
		emit := func(tokens []csvlex.Token) error {
			for _, tok := range tokens {
				select {
				case out <- tok:
				case <-gctx.Done():
					return gctx.Err()
				}
				if len(out) == cap(out) {
					// Downstream desiredSize <= 0: count this token
					// toward the next scheduler yield, which fires
					// every CheckInterval such tokens.
					yield.Tick(runtime.Gosched)
				} else {
					yield.Tick(nil)
				}
			}
			return nil
		}

		for {
			select {
			case chunk, ok := <-in:
				if !ok {
					tokens, err := a.lexer.Flush()
					if err != nil {
						return err
					}
					return emit(tokens)
				}
				if chunk == "" {
					continue
				}
				tokens, err := a.lexer.Lex(chunk, true)
				if err != nil {
					return err
				}
				if err := emit(tokens); err != nil {
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
