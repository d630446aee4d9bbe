package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/shopspring/decimal"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := models.LedgerEvent{
		Name:  "INFY",
		Mode:  models.ModeBuy,
		Qty:   10,
		Price: decimal.NewFromInt(1555),
		At:    at,
	}

	msg, err := newMessage(ev)
	if err != nil {
		t.Fatalf("newMessage: %v", err)
	}
	if string(msg.Key) != "INFY" {
		t.Errorf("expected key INFY, got %q", msg.Key)
	}
	if !msg.Time.Equal(at) {
		t.Errorf("expected time %v, got %v", at, msg.Time)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "BUY" {
		t.Errorf("unexpected headers %+v", msg.Headers)
	}

	var decoded models.LedgerEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Qty != 10 || !decoded.Price.Equal(ev.Price) {
		t.Errorf("unexpected payload %+v", decoded)
	}
}
