package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", FirstNonEmpty("d", "a", "b"))
	assert.Equal(t, "b", FirstNonEmpty("d", "", "b"))
	assert.Equal(t, "d", FirstNonEmpty("d", "", ""))
	assert.Equal(t, "d", FirstNonEmpty("d"))
	assert.Equal(t, "", FirstNonEmpty(""))
}

func TestResolveSender(t *testing.T) {
	tests := []struct {
		name       string
		event      MessageEvent
		profile    *UserProfile
		wantName   string
		wantAvatar string
	}{
		{
			name:       "event fields win over profile",
			event:      MessageEvent{SenderName: "Bob", SenderImageURL: "http://e/b.png"},
			profile:    &UserProfile{Username: "Robert", ImageURL: "http://p/r.png"},
			wantName:   "Bob",
			wantAvatar: "http://e/b.png",
		},
		{
			name:       "profile fills missing fields",
			event:      MessageEvent{},
			profile:    &UserProfile{Username: "Alice", ImageURL: "http://a/b.png"},
			wantName:   "Alice",
			wantAvatar: "http://a/b.png",
		},
		{
			name:       "profile fills only the missing avatar",
			event:      MessageEvent{SenderName: "Bob"},
			profile:    &UserProfile{Username: "Robert", ImageURL: "http://p/r.png"},
			wantName:   "Bob",
			wantAvatar: "http://p/r.png",
		},
		{
			name:       "empty profile fields fall back to defaults",
			event:      MessageEvent{},
			profile:    &UserProfile{},
			wantName:   "Unknown",
			wantAvatar: "",
		},
		{
			name:       "no profile falls back to defaults",
			event:      MessageEvent{SenderImageURL: "http://e/x.png"},
			wantName:   "Unknown",
			wantAvatar: "http://e/x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, avatar := resolveSender(tt.event, tt.profile)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAvatar, avatar)
		})
	}
}

func TestTopicForGroup(t *testing.T) {
	for _, groupID := range []string{"g1", "Team-42", "with space", "a/b", "ünïcode"} {
		assert.Equal(t, "group_"+groupID, TopicForGroup(groupID))
	}
}

func TestBuildPayload(t *testing.T) {
	event := MessageEvent{GroupID: "g1", MessageID: "m1", SenderID: "u1", Text: "hi"}

	p := BuildPayload(event, "Alice", "http://a/b.png")

	assert.Equal(t, "group_g1", p.Topic)
	assert.Equal(t, "u1", p.SenderID)
	assert.Equal(t, map[string]string{
		"title":        "Alice",
		"body":         "hi",
		"image":        "http://a/b.png",
		"groupId":      "g1",
		"click_action": "FLUTTER_NOTIFICATION_CLICK",
	}, p.Data())
}
