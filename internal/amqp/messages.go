package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage is a user facing notification as it travels over the
// broker.
type NotificationMessage struct {
	Kind      string    `json:"kind"`
	Level     string    `json:"level"`
	Icon      string    `json:"icon,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewNotificationMessage(kind, level, icon, message string) *NotificationMessage {
	return &NotificationMessage{
		Kind:      kind,
		Level:     level,
		Icon:      icon,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
