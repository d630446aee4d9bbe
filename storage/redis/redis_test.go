package redis_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/config"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/websocket"
	"github.com/DineshPrabhakaran22/Zerodha1/storage/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const channel = "ledger.events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func subscribe(t *testing.T, ctx context.Context, client *goredis.Client) *redis.Subscriber {
	t.Helper()

	sub := redis.NewSubscriber(client, discardLogger())
	if err := sub.Subscribe(ctx, channel); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	t.Cleanup(sub.Close)

	return sub
}

func testEvent() models.LedgerEvent {
	return models.LedgerEvent{
		Name:    "INFY",
		Mode:    models.ModeBuy,
		Qty:     3,
		Price:   decimal.NewFromInt(1500),
		Holding: models.NewHolding("INFY", 3, decimal.NewFromInt(1500)),
		At:      time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC),
	}
}

func TestPublisherDeliversToSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, client := setupRedis(t)
	sub := subscribe(t, ctx, client)

	if err := sub.Subscribe(ctx, channel); err != nil {
		t.Fatalf("second Subscribe on the same channel: %v", err)
	}

	if err := redis.NewPublisher(client, channel).Publish(ctx, testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-sub.Messages:
		if msg.Channel != channel {
			t.Errorf("expected channel %q, got %q", channel, msg.Channel)
		}

		var ev models.LedgerEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Name != "INFY" || ev.Mode != models.ModeBuy || ev.Qty != 3 || !ev.Price.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("unexpected event %+v", ev)
		}
		if ev.Holding == nil || ev.Holding.Qty != 3 {
			t.Errorf("expected holding snapshot, got %+v", ev.Holding)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for published event")
	}
}

func TestPublishedEventReachesWebsocketClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, client := setupRedis(t)
	sub := subscribe(t, ctx, client)

	m := websocket.NewManager(discardLogger())
	go m.Run(ctx)
	go m.ListenRedis(ctx, sub)

	dash := websocket.NewClient(m, nil, uuid.New(), "dash")
	if !m.Register(dash) {
		t.Fatalf("register failed on a running manager")
	}

	if err := redis.NewPublisher(client, channel).Publish(ctx, testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case payload, ok := <-dash.Send:
		if !ok {
			t.Fatalf("client send channel closed")
		}
		var ev models.LedgerEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Name != "INFY" || ev.Qty != 3 {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the event on the websocket client")
	}
}

func TestPublishFailsWhenRedisIsDown(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := redis.NewPublisher(client, channel).Publish(ctx, testEvent()); err == nil {
		t.Fatalf("expected an error publishing to a stopped server")
	}
}
