package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds the order broker settings, read from RABBITMQ_* variables.
type Config struct {
	URL             string `split_words:"true"`
	OrderExchange   string `split_words:"true" default:"kiosk.orders"`
	OrderQueue      string `split_words:"true" default:"kiosk.orders.submitted"`
	RoutingKey      string `split_words:"true" default:"order.submitted"`
	DeadLetterQueue string `split_words:"true" default:"kiosk.orders.dead"`
}

// Declarer is the part of *amqp.Channel used to set up the topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     Config
}

// New dials the broker, opens a channel and declares the order topology.
func New(cfg Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	r := &RabbitMQ{Conn: conn, Channel: ch, Cfg: cfg}
	if err := SetupTopology(ch, cfg); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// SetupTopology declares the durable order exchange and queue, with
// rejected orders routed to a dead letter queue.
func SetupTopology(ch Declarer, cfg Config) error {
	dlx := cfg.DeadLetterQueue + "_exchange"
	if err := ch.ExchangeDeclare(
		dlx,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", dlx, err)
	}
	if _, err := ch.QueueDeclare(cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.DeadLetterQueue, err)
	}
	if err := ch.QueueBind(cfg.DeadLetterQueue, cfg.DeadLetterQueue, dlx, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", cfg.DeadLetterQueue, err)
	}

	if err := ch.ExchangeDeclare(cfg.OrderExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.OrderExchange, err)
	}
	if _, err := ch.QueueDeclare(
		cfg.OrderQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange":    dlx,
			"x-dead-letter-routing-key": cfg.DeadLetterQueue,
		},
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.OrderQueue, err)
	}
	if err := ch.QueueBind(cfg.OrderQueue, cfg.RoutingKey, cfg.OrderExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", cfg.OrderQueue, err)
	}
	return nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
