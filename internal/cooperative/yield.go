// Package cooperative implements the checkInterval-gated scheduler yield
// spec.md §4.4/§4.5 describe: after every checkInterval tokens (or
// records) produced while the output side is backpressured, pause and let
// other work on the scheduler run before enqueuing more.
package cooperative

// Yielder counts ticks and invokes a yield function every interval ticks.
type Yielder struct {
	interval int
	count    int
}

// NewYielder returns a Yielder that fires every interval ticks. An
// interval <= 0 disables yielding.
func NewYielder(interval int) *Yielder {
	return &Yielder{interval: interval}
}

// Tick records one unit of progress. If this tick crosses the configured
// interval, yield is invoked and the counter resets. A nil yield makes Tick
// a no-op: the tick is not counted.
func (y *Yielder) Tick(yield func()) {
	if y.interval <= 0 || yield == nil {
		return
	}
	y.count++
	if y.count >= y.interval {
		y.count = 0
		yield()
	}
}
