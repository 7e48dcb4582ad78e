package dispatcher

// FirstNonEmpty returns the first non-empty candidate, or def when every
// candidate is empty.
func FirstNonEmpty(def string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return def
}

// needsProfile reports whether the event lacks a sender name or avatar.
func needsProfile(event MessageEvent) bool {
	return event.SenderName == "" || event.SenderImageURL == ""
}

// resolveSender applies the name and avatar fallback chains. profile may be nil.
func resolveSender(event MessageEvent, profile *UserProfile) (name, avatar string) {
	var username, imageURL string
	if profile != nil {
		username = profile.Username
		imageURL = profile.ImageURL
	}

	name = FirstNonEmpty(DefaultSenderName, event.SenderName, username)
	avatar = FirstNonEmpty(DefaultSenderAvatar, event.SenderImageURL, imageURL)
	return name, avatar
}

// BuildPayload builds the notification for event from the resolved sender.
func BuildPayload(event MessageEvent, senderName, senderAvatar string) Payload {
	return Payload{
		Title:       senderName,
		Body:        event.Text,
		Image:       senderAvatar,
		GroupID:     event.GroupID,
		ClickAction: ClickAction,
		Topic:       TopicForGroup(event.GroupID),
		SenderID:    event.SenderID,
	}
}
