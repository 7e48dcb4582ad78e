package groupChatNotification

import (
	"fmt"
	"strings"
	"time"

	"github.com/groupChatNotification/internal/dispatcher"
)

type UpdateMask struct {
	FieldPaths []string `json:"fieldPaths"`
}

// FirestoreEvent is the payload of a Firestore document trigger.
type FirestoreEvent struct {
	OldValue   FirestoreValue `json:"oldValue"`
	Value      FirestoreValue `json:"value"`
	UpdateMask UpdateMask     `json:"updateMask"`
}

type FirestoreValue struct {
	CreateTime time.Time     `json:"createTime"`
	Fields     MessageFields `json:"fields"`
	Name       string        `json:"name"`
	UpdateTime time.Time     `json:"updateTime"`
}

type StringValue struct {
	Value string `json:"stringValue"`
}

// MessageFields is a message document in Firestore's typed value encoding.
type MessageFields struct {
	SenderID       StringValue `json:"senderId"`
	Text           StringValue `json:"text"`
	SenderName     StringValue `json:"senderName"`
	SenderImageURL StringValue `json:"senderImageUrl"`
}

// routeParams extracts groupId and messageId from a document name of the form
// projects/{p}/databases/{d}/documents/groups/{groupId}/messages/{messageId}.
func routeParams(name string) (groupID, messageID string, err error) {
	_, path, found := strings.Cut(name, "/documents/")
	if !found {
		return "", "", fmt.Errorf("%w: unexpected document name %q", dispatcher.ErrInvalidEvent, name)
	}

	segments := strings.Split(path, "/")
	if len(segments) != 4 || segments[0] != groupsSegment || segments[2] != messagesSegment ||
		segments[1] == "" || segments[3] == "" {
		return "", "", fmt.Errorf("%w: %q is not a group message", dispatcher.ErrInvalidEvent, path)
	}

	return segments[1], segments[3], nil
}

// messageEvent converts a trigger payload into a MessageEvent.
func messageEvent(fsEvent FirestoreEvent) (dispatcher.MessageEvent, error) {
	groupID, messageID, err := routeParams(fsEvent.Value.Name)
	if err != nil {
		return dispatcher.MessageEvent{}, err
	}

	fields := fsEvent.Value.Fields
	return dispatcher.MessageEvent{
		GroupID:        groupID,
		MessageID:      messageID,
		SenderID:       fields.SenderID.Value,
		Text:           fields.Text.Value,
		SenderName:     fields.SenderName.Value,
		SenderImageURL: fields.SenderImageURL.Value,
	}, nil
}
