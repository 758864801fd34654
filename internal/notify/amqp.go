package notify

import (
	"context"

	"earnings/internal/amqp"
)

// Publisher is the part of the broker client the AMQP notifier needs.
type Publisher interface {
	PublishNotification(ctx context.Context, msg *amqp.NotificationMessage) error
}

// Broker publishes notifications to a message queue so other processes can
// deliver them.
type Broker struct {
	pub Publisher
}

func NewBroker(pub Publisher) *Broker {
	return &Broker{pub: pub}
}

func (b *Broker) Notify(ctx context.Context, n Notification) error {
	return b.pub.PublishNotification(ctx, amqp.NewNotificationMessage(n.Kind, string(n.Level), n.Icon, n.Message))
}

// FromMessage converts a consumed broker message back into a notification.
func FromMessage(m *amqp.NotificationMessage) Notification {
	return Notification{Kind: m.Kind, Level: Level(m.Level), Icon: m.Icon, Message: m.Message}
}
