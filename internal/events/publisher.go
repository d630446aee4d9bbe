package events

import (
	"context"
	"errors"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
)

// Publisher delivers committed ledger events to a downstream channel.
type Publisher interface {
	Publish(ctx context.Context, ev models.LedgerEvent) error
}

// Fanout publishes every event to each of its publishers and joins their
// errors. One failing publisher does not stop the others.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev models.LedgerEvent) error {
	var errList []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

type Nop struct{}

func (Nop) Publish(context.Context, models.LedgerEvent) error { return nil }
