package testutil

import "context"

// InlineTransactor runs fn directly, without a database transaction.
type InlineTransactor struct{}

func (InlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
