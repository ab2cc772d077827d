package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangePosts    Exchange = "postline.posts"
	ExchangeAccounts Exchange = "postline.accounts"
)

// Queues — имена очередей.
const (
	QueuePostsQueued      Queue = "posts.queued"
	QueueAccountsDegraded Queue = "accounts.degraded"
)

// Routing keys.
const (
	RoutingKeyQueued   RoutingKey = "queued"
	RoutingKeyDegraded RoutingKey = "degraded"
)

// SetupTopology декларирует обменники, очереди и привязки.
// Идемпотентна: повторная декларация существующей топологии — no-op.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}

		if err := declareQueues(ch); err != nil {
			return err
		}

		if err := bindQueues(ch); err != nil {
			return err
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangePosts, "direct"},
		{ExchangeAccounts, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	queues := []Queue{
		// posts.queued — посты, переведённые в очередь публикации
		QueuePostsQueued,

		// accounts.degraded — аккаунты, у которых не удалось обновить токен
		QueueAccountsDegraded,
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q), // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			nil,       // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueuePostsQueued, RoutingKeyQueued, ExchangePosts},
		{QueueAccountsDegraded, RoutingKeyDegraded, ExchangeAccounts},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Postline RabbitMQ Topology:

    postline.posts (direct)
    └── posts.queued [routing: queued]
            Consumer: Publishing pipeline

    postline.accounts (direct)
    └── accounts.degraded [routing: degraded]
            Consumer: Support tooling
  `
}
