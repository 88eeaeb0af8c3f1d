// README: Notification dispatcher; durable insert first, best-effort live and push delivery after.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eats/internal/types"
)

var ErrBadRequest = errors.New("missing or invalid required field")

// Store is the durable notification persistence; an insert failure fails
// the Notify call, nothing downstream does.
type Store interface {
	Insert(ctx context.Context, n *Notification) error
	ByVendor(ctx context.Context, vendorID types.ID) ([]Notification, error)
	ByRider(ctx context.Context, riderID types.ID) ([]Notification, error)
}

// TokenSource resolves an actor's registered push token; empty means no
// token on file.
type TokenSource interface {
	VendorFCMToken(ctx context.Context, id types.ID) (string, error)
	RiderFCMToken(ctx context.Context, id types.ID) (string, error)
}

// Pusher delivers a (token, title, body) push message.
type Pusher interface {
	Push(ctx context.Context, token, title, body string) error
}

// LiveSender delivers a payload over an open real-time connection.
type LiveSender interface {
	Send(actorID types.ID, payload any) error
}

type Service struct {
	store   Store
	tokens  TokenSource
	push    Pusher
	live    LiveSender
	timeout time.Duration
	log     zerolog.Logger
}

// NewService wires the dispatcher. push and live may be nil; delivery over
// a missing channel is simply skipped.
func NewService(store Store, tokens TokenSource, push Pusher, live LiveSender, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{store: store, tokens: tokens, push: push, live: live, timeout: timeout, log: log}
}

type livePayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NotifyVendor persists a vendor notification and fans it out best-effort.
func (s *Service) NotifyVendor(ctx context.Context, vendorID types.ID, message string) error {
	if vendorID == "" || message == "" {
		return ErrBadRequest
	}
	oid, err := primitive.ObjectIDFromHex(string(vendorID))
	if err != nil {
		return ErrBadRequest
	}
	if err := s.store.Insert(ctx, &Notification{VendorID: oid, Message: message}); err != nil {
		return err
	}
	s.deliver(vendorID, "New Order", message, s.tokens.VendorFCMToken)
	return nil
}

// NotifyRider persists a rider notification and fans it out best-effort.
func (s *Service) NotifyRider(ctx context.Context, riderID types.ID, message string) error {
	if riderID == "" || message == "" {
		return ErrBadRequest
	}
	oid, err := primitive.ObjectIDFromHex(string(riderID))
	if err != nil {
		return ErrBadRequest
	}
	if err := s.store.Insert(ctx, &Notification{RiderID: oid, Message: message}); err != nil {
		return err
	}
	s.deliver(riderID, "New Order Assignment", message, s.tokens.RiderFCMToken)
	return nil
}

func (s *Service) ByVendor(ctx context.Context, vendorID types.ID) ([]Notification, error) {
	if vendorID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByVendor(ctx, vendorID)
}

func (s *Service) ByRider(ctx context.Context, riderID types.ID) ([]Notification, error) {
	if riderID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByRider(ctx, riderID)
}

// deliver runs the live and push attempts in a detached goroutine with its
// own bounded deadline. The triggering request never waits on it and never
// sees its errors; the persisted record is the durability contract.
func (s *Service) deliver(actorID types.ID, title, message string, tokenOf func(context.Context, types.ID) (string, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if s.live != nil {
			if err := s.live.Send(actorID, livePayload{Type: title, Message: message}); err != nil {
				s.log.Debug().Err(err).Str("actor", string(actorID)).Msg("live delivery skipped")
			} else {
				s.log.Info().Str("actor", string(actorID)).Msg("live notification sent")
			}
		}

		if s.push == nil {
			return
		}
		token, err := tokenOf(ctx, actorID)
		if err != nil || token == "" {
			if err != nil {
				s.log.Warn().Err(err).Str("actor", string(actorID)).Msg("push token lookup failed")
			}
			return
		}
		if err := s.push.Push(ctx, token, title, message); err != nil {
			s.log.Error().Err(err).Str("actor", string(actorID)).Msg("error sending push notification")
			return
		}
		s.log.Info().Str("actor", string(actorID)).Msg("push notification sent")
	}()
}
