package csvlex

import "context"

// ContextCancel adapts a context.Context into a CancelFunc, so a Lexer or
// Assembler can be canceled the idiomatic Go way (context deadline or
// explicit cancel) rather than through a bespoke handle type.
func ContextCancel(ctx context.Context) CancelFunc {
	return func() (bool, error) {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		default:
			return false, nil
		}
	}
}
