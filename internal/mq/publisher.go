package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypePostQueued      MessageType = "post.queued"
	MessageTypeAccountDegraded MessageType = "account.degraded"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// PostQueuedPayload — payload для сообщения о посте, поставленном в очередь.
type PostQueuedPayload struct {
	PostID uuid.UUID `json:"post_id"`
	UserID uuid.UUID `json:"user_id"`
}

// AccountDegradedPayload — payload для сообщения о деградировавшем аккаунте.
type AccountDegradedPayload struct {
	AccountID uuid.UUID `json:"account_id"`
	Platform  string    `json:"platform"`
	Reason    string    `json:"reason"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishPostQueued публикует событие о посте, переведённом в очередь публикации.
// Потребитель: publishing pipeline.
func (p *Publisher) PublishPostQueued(ctx context.Context, postID, userID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypePostQueued,
		Payload:   PostQueuedPayload{PostID: postID, UserID: userID},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangePosts, RoutingKeyQueued, msg)
}

// PublishAccountDegraded публикует событие об аккаунте, оставшемся без рабочего токена.
func (p *Publisher) PublishAccountDegraded(ctx context.Context, accountID uuid.UUID, platform, reason string) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeAccountDegraded,
		Payload:   AccountDegradedPayload{AccountID: accountID, Platform: platform, Reason: reason},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeAccounts, RoutingKeyDegraded, msg)
}
