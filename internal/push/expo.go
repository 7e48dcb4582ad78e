package push

import (
	"context"
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	log "github.com/sirupsen/logrus"

	"github.com/groupChatNotification/internal/dispatcher"
	"github.com/groupChatNotification/internal/store"
)

// MemberLister returns the members of a group.
type MemberLister interface {
	Members(ctx context.Context, groupID string) ([]store.Member, error)
}

// expoBatchSize is the most messages Expo accepts in one request.
const expoBatchSize = 100

// Publisher is implemented by *expo.PushClient.
type Publisher interface {
	PublishMultiple(messages []expo.PushMessage) ([]expo.PushResponse, error)
}

// Expo delivers a payload to every member of the group that has an Expo
// token, standing in for a topic subscription.
type Expo struct {
	members MemberLister
	client  Publisher
}

func NewExpo(members MemberLister, client Publisher) *Expo {
	return &Expo{members: members, client: client}
}

func (e *Expo) tokens(ctx context.Context, groupID, senderID string) ([]expo.ExponentPushToken, error) {
	members, err := e.members.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expoTokens := []expo.ExponentPushToken{}
	for _, member := range members {
		// The sender does not get notified of their own message
		if member.UserID == senderID {
			continue
		}

		token, err := expo.NewExponentPushToken(member.ExpoToken)
		if err != nil {
			log.Warnf("invalid expo token. user id: %s", member.UserID)
			continue
		}

		expoTokens = append(expoTokens, token)
	}

	return expoTokens, nil
}

func (e *Expo) Send(ctx context.Context, payload dispatcher.Payload) error {
	expoTokens, err := e.tokens(ctx, payload.GroupID, payload.SenderID)
	if err != nil {
		return fmt.Errorf("resolving subscribers of %s: %w", payload.Topic, err)
	}
	if len(expoTokens) == 0 {
		log.WithField("topic", payload.Topic).Info("no expo subscribers to notify")
		return nil
	}

	pushMessages := make([]expo.PushMessage, 0, len(expoTokens))
	for _, token := range expoTokens {
		pushMessages = append(pushMessages, expo.PushMessage{
			To:       []expo.ExponentPushToken{token},
			Title:    payload.Title,
			Body:     payload.Body,
			Data:     payload.Data(),
			Sound:    "default",
			Priority: expo.HighPriority,
		})
	}

	rejected := 0
	for start := 0; start < len(pushMessages); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(pushMessages) {
			end = len(pushMessages)
		}

		responses, err := e.client.PublishMultiple(pushMessages[start:end])
		if err != nil {
			return fmt.Errorf("expo publish: %w", err)
		}

		for i := range responses {
			if err := responses[i].ValidateResponse(); err != nil {
				rejected++
				log.WithError(err).WithFields(log.Fields{
					"topic": payload.Topic,
					"to":    responses[i].PushMessage.To,
				}).Warn("expo rejected push ticket")
			}
		}
	}

	// Tickets rejected per device are not retried, the others were delivered.
	if rejected == len(pushMessages) {
		return fmt.Errorf("expo rejected all %d messages for %s", rejected, payload.Topic)
	}

	return nil
}
