package groupChatNotification

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupChatNotification/internal/dispatcher"
)

const createdMessageEvent = `{
  "oldValue": {},
  "updateMask": {},
  "value": {
    "createTime": "2024-05-01T10:00:00.000000Z",
    "updateTime": "2024-05-01T10:00:00.000000Z",
    "name": "projects/chat-dev/databases/(default)/documents/groups/g1/messages/m1",
    "fields": {
      "senderId": {"stringValue": "u1"},
      "text": {"stringValue": "hi"},
      "senderName": {"stringValue": "Alice"}
    }
  }
}`

func TestMessageEvent_DecodesTrigger(t *testing.T) {
	var fsEvent FirestoreEvent
	require.NoError(t, json.Unmarshal([]byte(createdMessageEvent), &fsEvent))

	event, err := messageEvent(fsEvent)
	require.NoError(t, err)

	assert.Equal(t, dispatcher.MessageEvent{
		GroupID:    "g1",
		MessageID:  "m1",
		SenderID:   "u1",
		Text:       "hi",
		SenderName: "Alice",
	}, event)
}

func TestRouteParams(t *testing.T) {
	tests := []struct {
		name      string
		docName   string
		wantGroup string
		wantMsg   string
		wantErr   bool
	}{
		{
			name:      "group message",
			docName:   "projects/p/databases/(default)/documents/groups/g1/messages/m1",
			wantGroup: "g1",
			wantMsg:   "m1",
		},
		{
			name:      "group id kept verbatim",
			docName:   "projects/p/databases/(default)/documents/groups/Team_42-x/messages/abc",
			wantGroup: "Team_42-x",
			wantMsg:   "abc",
		},
		{name: "empty name", docName: "", wantErr: true},
		{name: "other collection", docName: "projects/p/databases/(default)/documents/users/u1", wantErr: true},
		{name: "nested too deep", docName: "projects/p/databases/(default)/documents/groups/g1/messages/m1/reactions/r1", wantErr: true},
		{name: "wrong sub collection", docName: "projects/p/databases/(default)/documents/groups/g1/members/m1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groupID, messageID, err := routeParams(tt.docName)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, dispatcher.ErrInvalidEvent))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGroup, groupID)
			assert.Equal(t, tt.wantMsg, messageID)
		})
	}
}
