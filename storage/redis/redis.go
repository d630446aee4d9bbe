package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/config"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/redis/go-redis/v9"
)

type Message struct {
	Channel string
	Payload string
}

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Publisher publishes ledger events on a single redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, ev models.LedgerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.Publish: marshal: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Publish: %w", err)
	}
	return nil
}

type Subscriber struct {
	client        *redis.Client
	Messages      chan Message
	subscriptions map[string]*redis.PubSub
	mu            sync.RWMutex
	log           *slog.Logger
}

func NewSubscriber(client *redis.Client, log *slog.Logger) *Subscriber {
	return &Subscriber{
		client:        client,
		Messages:      make(chan Message, 1000),
		subscriptions: make(map[string]*redis.PubSub),
		log:           log,
	}
}

func (s *Subscriber) Subscribe(ctx context.Context, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[channel]; exists {
		return nil
	}

	pubsub := s.client.Subscribe(ctx, channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		s.log.Error("failed to subscribe to redis channel", "channel", channel, "error", err)
		return err
	}

	s.subscriptions[channel] = pubsub
	s.log.Info("subscribed to redis channel", "channel", channel)

	go s.listener(ctx, pubsub)

	return nil
}

func (s *Subscriber) listener(ctx context.Context, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("listener stopped due to context cancellation")
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn("redis pubsub channel closed")
				return
			}

			select {
			case s.Messages <- Message{Channel: msg.Channel, Payload: msg.Payload}:
			default:
				s.log.Warn("messages channel full, dropping message")
			}
		}
	}
}

// Close releases the subscriptions. The shared client is closed by its owner.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("closing redis subscriber...")
	for channel, pubsub := range s.subscriptions {
		if err := pubsub.Close(); err != nil {
			s.log.Warn("error closing pubsub", "channel", channel, "error", err)
		}
	}
	s.subscriptions = make(map[string]*redis.PubSub)
	s.log.Info("redis subscriber closed")
}
