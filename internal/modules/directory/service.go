// README: Directory service; identity resolution plus cached directory/menu reads.
package directory

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"eats/internal/types"
)

// Cache is the advisory key-value projection store. A nil Cache disables
// the fast path entirely.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Store is the durable directory backing the service reads from.
type Store interface {
	VendorByName(ctx context.Context, name string) (Vendor, error)
	VendorByID(ctx context.Context, id types.ID) (Vendor, error)
	Vendors(ctx context.Context) ([]Vendor, error)
	CustomerByID(ctx context.Context, id types.ID) (Customer, error)
	RiderByID(ctx context.Context, id types.ID) (Rider, error)
	MenuItemByID(ctx context.Context, id types.ID) (MenuItem, error)
	MenuByVendor(ctx context.Context, vendorID types.ID) ([]MenuItem, error)
	AppendRiderOrder(ctx context.Context, riderID types.ID, ref OrderRef) error
}

type Service struct {
	store Store
	cache Cache
	log   zerolog.Logger
}

func NewService(store Store, cache Cache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

func (s *Service) VendorByName(ctx context.Context, name string) (Vendor, error) {
	return s.store.VendorByName(ctx, name)
}

func (s *Service) VendorByID(ctx context.Context, id types.ID) (Vendor, error) {
	return s.store.VendorByID(ctx, id)
}

func (s *Service) CustomerByID(ctx context.Context, id types.ID) (Customer, error) {
	return s.store.CustomerByID(ctx, id)
}

func (s *Service) RiderByID(ctx context.Context, id types.ID) (Rider, error) {
	return s.store.RiderByID(ctx, id)
}

func (s *Service) MenuItemByID(ctx context.Context, id types.ID) (MenuItem, error) {
	return s.store.MenuItemByID(ctx, id)
}

func (s *Service) AppendRiderOrder(ctx context.Context, riderID types.ID, ref OrderRef) error {
	return s.store.AppendRiderOrder(ctx, riderID, ref)
}

// VendorFCMToken returns the vendor's push token, empty when none is registered.
func (s *Service) VendorFCMToken(ctx context.Context, id types.ID) (string, error) {
	v, err := s.store.VendorByID(ctx, id)
	if err != nil {
		return "", err
	}
	return v.FCMToken, nil
}

// RiderFCMToken returns the rider's push token, empty when none is registered.
func (s *Service) RiderFCMToken(ctx context.Context, id types.ID) (string, error) {
	r, err := s.store.RiderByID(ctx, id)
	if err != nil {
		return "", err
	}
	return r.FCMToken, nil
}

// Vendors returns the vendor directory, read-through cached.
func (s *Service) Vendors(ctx context.Context) ([]Vendor, error) {
	var cached []Vendor
	if s.readProjection(ctx, vendorsKey, &cached) {
		return cached, nil
	}
	vendors, err := s.store.Vendors(ctx)
	if err != nil {
		return nil, err
	}
	s.writeProjection(ctx, vendorsKey, vendors)
	return vendors, nil
}

// MenuByVendor returns a vendor's menu, read-through cached.
func (s *Service) MenuByVendor(ctx context.Context, vendorID types.ID) ([]MenuItem, error) {
	key := menuKey(string(vendorID))
	var cached []MenuItem
	if s.readProjection(ctx, key, &cached) {
		return cached, nil
	}
	menu, err := s.store.MenuByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	s.writeProjection(ctx, key, menu)
	return menu, nil
}

// readProjection reports whether the cache held a usable value. Cache
// failures degrade to the store and are only logged.
func (s *Service) readProjection(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, falling back to store")
		return false
	}
	return true
}

func (s *Service) writeProjection(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
