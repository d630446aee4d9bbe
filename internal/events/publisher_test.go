package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/events"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
)

type recorder struct {
	got []models.LedgerEvent
	err error
}

func (r *recorder) Publish(_ context.Context, ev models.LedgerEvent) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestFanout(t *testing.T) {
	boom := errors.New("boom")
	failing := &recorder{err: boom}
	ok := &recorder{}

	err := events.Fanout{failing, ok, events.Nop{}}.Publish(context.Background(), models.LedgerEvent{Name: "INFY"})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to wrap boom, got %v", err)
	}
	if len(ok.got) != 1 || ok.got[0].Name != "INFY" {
		t.Errorf("publisher after a failing one did not receive the event: %+v", ok.got)
	}
}

func TestFanoutEmpty(t *testing.T) {
	if err := (events.Fanout{}).Publish(context.Background(), models.LedgerEvent{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
