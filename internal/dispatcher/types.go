package dispatcher

import (
	"context"
)

const (
	ClickAction = "FLUTTER_NOTIFICATION_CLICK"

	DefaultSenderName   = "Unknown"
	DefaultSenderAvatar = ""

	topicPrefix = "group_"
)

// MessageEvent is a newly created message in groups/{groupId}/messages/{messageId}.
type MessageEvent struct {
	GroupID        string
	MessageID      string
	SenderID       string
	Text           string
	SenderName     string
	SenderImageURL string
}

// UserProfile is the sender's document in the users collection.
type UserProfile struct {
	Username string `firestore:"username"`
	ImageURL string `firestore:"image_url"`
}

// Payload is the data message sent to a group topic.
type Payload struct {
	Title       string
	Body        string
	Image       string
	GroupID     string
	ClickAction string
	Topic       string

	// SenderID is not part of the data map. Brokers that fan out
	// themselves use it to skip the sender's own devices.
	SenderID string
}

// Data returns the payload's data map as clients receive it.
func (p Payload) Data() map[string]string {
	return map[string]string{
		"title":        p.Title,
		"body":         p.Body,
		"image":        p.Image,
		"groupId":      p.GroupID,
		"click_action": p.ClickAction,
	}
}

// ProfileStore looks up sender profiles. A missing profile is reported as
// (nil, nil).
type ProfileStore interface {
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// Broker submits a payload for fan-out to every subscriber of its topic.
type Broker interface {
	Send(ctx context.Context, payload Payload) error
}

// Deduper guards against sending the same message twice.
type Deduper interface {
	// Claim returns false when key was already claimed. A fresh claim is
	// pending and expires quickly unless confirmed.
	Claim(ctx context.Context, key string) (bool, error)
	// Confirm keeps a claim for the full dedup window once the message is sent.
	Confirm(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// TopicForGroup returns the broker topic of a group. groupID is used as is.
func TopicForGroup(groupID string) string {
	return topicPrefix + groupID
}
