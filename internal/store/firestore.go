package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/groupChatNotification/internal/dispatcher"
)

// Member is one entry of a group document's userList.
type Member struct {
	UserID    string `firestore:"userId"`
	ExpoToken string `firestore:"expoToken"`
}

type group struct {
	UserList []Member `firestore:"userList"`
}

// Store reads users and groups from Firestore.
type Store struct {
	client           *firestore.Client
	usersCollection  string
	groupsCollection string
}

func New(client *firestore.Client, usersCollection, groupsCollection string) *Store {
	return &Store{
		client:           client,
		usersCollection:  usersCollection,
		groupsCollection: groupsCollection,
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Profile returns the user's profile, or nil if the user has no document.
func (s *Store) Profile(ctx context.Context, userID string) (*dispatcher.UserProfile, error) {
	docSnap, err := s.client.Collection(s.usersCollection).Doc(userID).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", userID, err)
	}

	var profile dispatcher.UserProfile
	if err := docSnap.DataTo(&profile); err != nil {
		// A malformed profile is treated like a missing one.
		log.WithError(err).Warnf("unable to unmarshal user data for %s", userID)
		return nil, nil
	}

	return &profile, nil
}

// Members returns the members listed on the group document. A missing group
// has no members.
func (s *Store) Members(ctx context.Context, groupID string) ([]Member, error) {
	docSnap, err := s.client.Collection(s.groupsCollection).Doc(groupID).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching group %s: %w", groupID, err)
	}

	var g group
	if err := docSnap.DataTo(&g); err != nil {
		return nil, fmt.Errorf("unmarshalling group %s: %w", groupID, err)
	}

	return g.UserList, nil
}
