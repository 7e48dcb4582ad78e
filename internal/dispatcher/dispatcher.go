package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidEvent is returned for events missing a required field.
var ErrInvalidEvent = errors.New("invalid message event")

// dedupCleanupTimeout bounds Release and Confirm, which run even after the
// invocation's context is done.
const dedupCleanupTimeout = 5 * time.Second

// Dispatcher turns a new group message into a topic notification.
type Dispatcher struct {
	profiles ProfileStore
	broker   Broker
	dedup    Deduper
	logger   *log.Entry
}

type Option func(*Dispatcher)

// WithDeduper makes Dispatch skip messages it has already sent.
func WithDeduper(d Deduper) Option {
	return func(dp *Dispatcher) {
		dp.dedup = d
	}
}

func WithLogger(l *log.Entry) Option {
	return func(dp *Dispatcher) {
		dp.logger = l
	}
}

func New(profiles ProfileStore, broker Broker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		profiles: profiles,
		broker:   broker,
		dedup:    nopDeduper{},
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func validate(event MessageEvent) error {
	switch {
	case event.GroupID == "":
		return fmt.Errorf("%w: missing groupId", ErrInvalidEvent)
	case event.SenderID == "":
		return fmt.Errorf("%w: missing senderId", ErrInvalidEvent)
	case event.Text == "":
		return fmt.Errorf("%w: missing text", ErrInvalidEvent)
	}
	return nil
}

func dedupKey(event MessageEvent) string {
	return "groupchat:notified:" + event.GroupID + ":" + event.MessageID
}

// Dispatch enriches the sender, builds the payload and sends it to the
// group's topic. Either the notification is sent or an error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, event MessageEvent) error {
	if err := validate(event); err != nil {
		return err
	}

	logger := d.logger.WithFields(log.Fields{
		"groupId":   event.GroupID,
		"messageId": event.MessageID,
		"senderId":  event.SenderID,
	})

	key := dedupKey(event)
	claimed, err := d.dedup.Claim(ctx, key)
	if err != nil {
		return fmt.Errorf("claiming message %s: %w", event.MessageID, err)
	}
	if !claimed {
		logger.Info("notification already sent, skipping redelivery")
		return nil
	}

	payload, err := d.prepare(ctx, event)
	if err == nil {
		err = d.broker.Send(ctx, payload)
		if err != nil {
			err = fmt.Errorf("sending to topic %s: %w", payload.Topic, err)
		}
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dedupCleanupTimeout)
	defer cancel()

	if err != nil {
		if relErr := d.dedup.Release(cleanupCtx, key); relErr != nil {
			logger.WithError(relErr).Warn("unable to release dedup claim")
		}
		logger.WithError(err).Error("group notification failed")
		return err
	}

	// The notification is out; a failed confirm only shortens the dedup window.
	if confErr := d.dedup.Confirm(cleanupCtx, key); confErr != nil {
		logger.WithError(confErr).Warn("unable to confirm dedup claim")
	}

	logger.WithField("topic", payload.Topic).Info("group notification sent")
	return nil
}

func (d *Dispatcher) prepare(ctx context.Context, event MessageEvent) (Payload, error) {
	var profile *UserProfile
	if needsProfile(event) {
		var err error
		profile, err = d.profiles.Profile(ctx, event.SenderID)
		if err != nil {
			return Payload{}, fmt.Errorf("fetching profile of %s: %w", event.SenderID, err)
		}
		if profile == nil {
			d.logger.WithField("senderId", event.SenderID).Debug("sender has no profile, using defaults")
		}
	}

	name, avatar := resolveSender(event, profile)
	return BuildPayload(event, name, avatar), nil
}

// nopDeduper accepts every message, so redeliveries are sent again.
type nopDeduper struct{}

func (nopDeduper) Claim(context.Context, string) (bool, error) { return true, nil }

func (nopDeduper) Confirm(context.Context, string) error { return nil }

func (nopDeduper) Release(context.Context, string) error { return nil }
