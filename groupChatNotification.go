package groupChatNotification

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/groupChatNotification/internal/config"
	"github.com/groupChatNotification/internal/dedup"
	"github.com/groupChatNotification/internal/dispatcher"
	"github.com/groupChatNotification/internal/push"
	"github.com/groupChatNotification/internal/store"
)

const (
	groupsSegment   = "groups"
	messagesSegment = "messages"
)

var (
	notificationDispatcher *dispatcher.Dispatcher
	initErr                error
)

func init() {
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{log.FieldKeyMsg: "message"},
	})
	log.SetLevel(log.InfoLevel)

	notificationDispatcher, initErr = setup(context.Background())
	if initErr != nil {
		log.Errorf("initializing group chat notification: %s", initErr)
	}
}

func setup(ctx context.Context) (*dispatcher.Dispatcher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firestore client: %w", err)
	}
	fsStore := store.New(firestoreClient, cfg.UsersCollection, cfg.GroupsCollection)

	var broker dispatcher.Broker
	switch cfg.PushBroker {
	case config.BrokerExpo:
		broker = push.NewExpo(fsStore, expo.NewPushClient(nil))
	default:
		messagingClient, err := firebaseApp.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("initializing messaging client: %w", err)
		}
		broker = push.NewFCM(messagingClient)
	}

	dispatcherOpts := []dispatcher.Option{
		dispatcher.WithLogger(log.WithField("function", "SendGroupChatNotification")),
	}
	if cfg.DedupEnabled() {
		deduper, err := newDeduper(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dispatcherOpts = append(dispatcherOpts, dispatcher.WithDeduper(deduper))
	}

	log.WithFields(log.Fields{
		"broker": cfg.PushBroker,
		"dedup":  cfg.DedupEnabled(),
	}).Info("group chat notification initialized")

	return dispatcher.New(fsStore, broker, dispatcherOpts...), nil
}

// newDeduper connects to the dedup store and checks it is reachable.
func newDeduper(ctx context.Context, cfg *config.Config) (*dedup.Redis, error) {
	deduper := dedup.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DedupPendingTTL, cfg.DedupTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := deduper.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("connecting to dedup store %s: %w", cfg.RedisAddr, err)
	}

	return deduper, nil
}

// SendGroupChatNotification is triggered by the creation of
// groups/{groupId}/messages/{messageId} and notifies the group's topic.
func SendGroupChatNotification(ctx context.Context, fsEvent FirestoreEvent) error {
	if initErr != nil {
		return initErr
	}

	return handle(ctx, notificationDispatcher, fsEvent)
}

func handle(ctx context.Context, d *dispatcher.Dispatcher, fsEvent FirestoreEvent) error {
	event, err := messageEvent(fsEvent)
	if err != nil {
		log.Error(err)
		return err
	}

	return d.Dispatch(ctx, event)
}
