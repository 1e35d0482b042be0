package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier канал уведомлений об изменениях поверх Redis pub/sub.
// Один канал на все инстансы сервиса: событие, опубликованное одним
// инстансом, доходит до WS-сессий всех остальных.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     Logger
}

// NewRedisNotifier создает нотификатор поверх Redis
func NewRedisNotifier(addr, password string, db int, channel string, log Logger) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// Ping проверяет соединение с Redis
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// PublishReservationChange публикует событие изменения бронирований
func (n *RedisNotifier) PublishReservationChange(ctx context.Context, event Event) error {
	event.Table = TableReservations

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("notify: publish event: %w", err)
	}

	return nil
}

// Subscribe запускает горутину, читающую события канала и передающую их
// в handler. Завершается при отмене контекста. Некорректные сообщения
// логируются и пропускаются.
func (n *RedisNotifier) Subscribe(ctx context.Context, handler func(Event)) {
	pubsub := n.client.Subscribe(ctx, n.channel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.log.Warn("notify: skipping malformed event: %v", err)
					continue
				}
				handler(event)
			}
		}
	}()
}

// Close закрывает соединение с Redis
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
