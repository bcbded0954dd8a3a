package classifier

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/spendlens/spendlens/internal/completion"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/model"
)

// Classifier assigns categories to transactions through a completion backend.
type Classifier struct {
	completer   completion.Completer
	concurrency int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithConcurrency bounds the number of in-flight backend calls during
// ClassifyAll. Values below 1 are treated as 1.
func WithConcurrency(n int) Option {
	return func(c *Classifier) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// New creates a Classifier. By default transactions are classified one at a
// time in collection order.
func New(completer completion.Completer, opts ...Option) *Classifier {
	c := &Classifier{completer: completer, concurrency: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify asks the backend for txn's category and short description. On
// error txn is left unchanged.
func (c *Classifier) Classify(ctx context.Context, txn *model.Transaction) error {
	raw, err := c.completer.Complete(ctx, BuildPrompt(txn.Description))
	if err != nil {
		return fmt.Errorf("classifying %q: %w", txn.Description, err)
	}

	res, err := ParseResponse(raw)
	if err != nil {
		return fmt.Errorf("classifying %q: %w", txn.Description, err)
	}

	if !res.Known() {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("description", txn.Description).
			Str("label", res.Label).
			Msg("unrecognized category label, counting as OTHER")
	}

	txn.Category = res.Label
	txn.ShortDescription = res.ShortDescription
	return nil
}

// ClassifyAll classifies every transaction in txns in place. A failure on
// one transaction does not stop the others; all failures are returned
// together as a *BatchError once every transaction has been attempted.
// Each element of txns is written by at most one goroutine.
func (c *Classifier) ClassifyAll(ctx context.Context, txns []model.Transaction) error {
	failures := make([]error, len(txns))

	if c.concurrency <= 1 {
		for i := range txns {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				continue
			}
			failures[i] = c.Classify(ctx, &txns[i])
		}
		return newBatchError(failures)
	}

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for i := range txns {
		if err := ctx.Err(); err != nil {
			failures[i] = err
			continue
		}
		g.Go(func() error {
			failures[i] = c.Classify(ctx, &txns[i])
			return nil
		})
	}
	_ = g.Wait()

	return newBatchError(failures)
}

// ItemError is the failure of a single transaction in a batch.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchError collects per-transaction failures from ClassifyAll.
type BatchError struct {
	Items []ItemError
	Total int
}

func newBatchError(failures []error) error {
	be := &BatchError{Total: len(failures)}
	for i, err := range failures {
		if err != nil {
			be.Items = append(be.Items, ItemError{Index: i, Err: err})
		}
	}
	if len(be.Items) == 0 {
		return nil
	}
	return be
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		msgs = append(msgs, it.Error())
	}
	return fmt.Sprintf("%d of %d transactions not classified: %s", len(e.Items), e.Total, strings.Join(msgs, "; "))
}

// Unwrap exposes each item failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Items))
	for i, it := range e.Items {
		errs[i] = it
	}
	return errs
}
