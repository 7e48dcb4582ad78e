package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/messaging"
	log "github.com/sirupsen/logrus"

	"github.com/groupChatNotification/internal/dispatcher"
)

// MessageSender is implemented by *messaging.Client.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCM sends data messages to Firebase Cloud Messaging topics.
type FCM struct {
	client MessageSender
}

func NewFCM(client MessageSender) *FCM {
	return &FCM{client: client}
}

func (f *FCM) Send(ctx context.Context, payload dispatcher.Payload) error {
	messageID, err := f.client.Send(ctx, &messaging.Message{
		Data:  payload.Data(),
		Topic: payload.Topic,
	})
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}

	log.WithFields(log.Fields{"topic": payload.Topic, "fcmMessageId": messageID}).Debug("fcm message accepted")
	return nil
}
