// README: Cart aggregator; line CRUD, note appending, pricing, and the write-through cache discipline.
package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"eats/internal/modules/directory"
	"eats/internal/types"
)

var (
	ErrBadRequest    = errors.New("missing or invalid required field")
	ErrNotFound      = errors.New("cart item does not exist")
	ErrDuplicateItem = errors.New("this item is already in the cart")
	ErrUnknownItem   = errors.New("this item does not exist on the menu")
	ErrNoCustomer    = errors.New("this customer does not exist")
	ErrEmptyCart     = errors.New("no cart items found for the customer")
)

// noteSeparator joins appended customer annotations; the description is an
// append-only log, never overwritten by AppendNote.
const noteSeparator = " & "

// Store is the durable cart persistence. Mutations here always precede
// the cache overwrite.
type Store interface {
	Insert(ctx context.Context, line *CartLine) error
	ByID(ctx context.Context, id types.ID) (CartLine, error)
	ByCustomer(ctx context.Context, customerID types.ID) ([]CartLine, error)
	ExistsByCustomerItem(ctx context.Context, customerID, itemID types.ID) (bool, error)
	Update(ctx context.Context, id types.ID, patch Patch) (CartLine, error)
	Delete(ctx context.Context, id types.ID) error
	DeleteByCustomer(ctx context.Context, customerID types.ID) (int64, error)
	DeleteByCustomerVendor(ctx context.Context, customerID types.ID, vendorName string) (int64, error)
}

// Cache is the advisory fast path for the per-customer cart projection.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Directory resolves the identities the aggregator references.
type Directory interface {
	MenuItemByID(ctx context.Context, id types.ID) (directory.MenuItem, error)
	CustomerByID(ctx context.Context, id types.ID) (directory.Customer, error)
	VendorByName(ctx context.Context, name string) (directory.Vendor, error)
}

// FeeEngine computes a delivery charge between two coordinates.
type FeeEngine interface {
	Fee(ctx context.Context, customer, vendor types.Point, ratePerKm int64) (int64, error)
}

type Service struct {
	store Store
	cache Cache
	dir   Directory
	fees  FeeEngine
	log   zerolog.Logger
}

func NewService(store Store, cache Cache, dir Directory, fees FeeEngine, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, dir: dir, fees: fees, log: log}
}

type AddCommand struct {
	CustomerID  types.ID
	ItemID      types.ID
	Quantity    int64
	DeliveryFee int64
}

// AddLine adds one menu item to the customer's cart. Adding the same item
// twice is an error, not a merge; vendor and customer fields are
// denormalized onto the line at write time.
func (s *Service) AddLine(ctx context.Context, cmd AddCommand) (CartLine, error) {
	if cmd.CustomerID == "" || cmd.ItemID == "" || cmd.Quantity < 0 || cmd.DeliveryFee < 0 {
		return CartLine{}, ErrBadRequest
	}

	item, err := s.dir.MenuItemByID(ctx, cmd.ItemID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return CartLine{}, ErrUnknownItem
		}
		return CartLine{}, err
	}
	customer, err := s.dir.CustomerByID(ctx, cmd.CustomerID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return CartLine{}, ErrNoCustomer
		}
		return CartLine{}, err
	}

	exists, err := s.store.ExistsByCustomerItem(ctx, cmd.CustomerID, cmd.ItemID)
	if err != nil {
		return CartLine{}, err
	}
	if exists {
		return CartLine{}, ErrDuplicateItem
	}

	qty := cmd.Quantity
	if qty == 0 {
		qty = 1
	}
	line := CartLine{
		CustomerID:      customer.ID,
		Customer:        customer.Username,
		CustomerContact: customer.PhoneNumber,
		CustomerEmail:   customer.Email,
		ItemID:          item.ID,
		VendorName:      item.VendorName,
		VendorContact:   item.VendorContact,
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price,
		Quantity:        qty,
		Image:           item.Image,
		DeliveryFee:     cmd.DeliveryFee,
	}
	if err := s.store.Insert(ctx, &line); err != nil {
		return CartLine{}, err
	}
	s.refreshCache(ctx, cmd.CustomerID)
	s.log.Info().Str("customer", line.Customer).Str("item", line.Name).Msg("cart item added")
	return line, nil
}

// UpdateLine applies a partial update and re-synchronizes the cache.
func (s *Service) UpdateLine(ctx context.Context, lineID types.ID, patch Patch) (CartLine, error) {
	if lineID == "" || patch.Empty() {
		return CartLine{}, ErrBadRequest
	}
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return CartLine{}, ErrBadRequest
	}
	line, err := s.store.Update(ctx, lineID, patch)
	if err != nil {
		return CartLine{}, err
	}
	s.refreshCache(ctx, types.ID(line.CustomerID.Hex()))
	return line, nil
}

// AppendNote appends an extra customer annotation to the line description,
// separated from the prior text; the prior text is never removed.
func (s *Service) AppendNote(ctx context.Context, lineID types.ID, extra string) (CartLine, error) {
	if lineID == "" || extra == "" {
		return CartLine{}, ErrBadRequest
	}
	line, err := s.store.ByID(ctx, lineID)
	if err != nil {
		return CartLine{}, err
	}
	desc := line.Description + noteSeparator + extra
	updated, err := s.store.Update(ctx, lineID, Patch{Description: &desc})
	if err != nil {
		return CartLine{}, err
	}
	s.refreshCache(ctx, types.ID(updated.CustomerID.Hex()))
	return updated, nil
}

// GetCart is read-through: cache first, store on miss, cache repopulated
// with the store result. Cache failures degrade to the store.
func (s *Service) GetCart(ctx context.Context, customerID types.ID) ([]CartLine, error) {
	if customerID == "" {
		return nil, ErrBadRequest
	}
	key := cartKey(string(customerID))
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		} else if ok {
			var lines []CartLine
			if err := json.Unmarshal(raw, &lines); err == nil {
				return lines, nil
			}
			s.log.Warn().Str("key", key).Msg("cache entry corrupt, falling back to store")
		}
	}
	lines, err := s.store.ByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, customerID, lines)
	return lines, nil
}

// Lines reads the cart from the durable store, bypassing the cache. Order
// materialization uses this so it never trusts the advisory projection.
func (s *Service) Lines(ctx context.Context, customerID types.ID) ([]CartLine, error) {
	return s.store.ByCustomer(ctx, customerID)
}

// RemoveLine deletes one line, then overwrites the cache entry with the
// post-deletion snapshot so the entry stays a correct snapshot.
func (s *Service) RemoveLine(ctx context.Context, lineID types.ID) error {
	if lineID == "" {
		return ErrBadRequest
	}
	line, err := s.store.ByID(ctx, lineID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, lineID); err != nil {
		return err
	}
	s.refreshCache(ctx, types.ID(line.CustomerID.Hex()))
	return nil
}

// ClearCart deletes every line for the customer. Clearing an already-empty
// cart is a failure, not a silent success.
func (s *Service) ClearCart(ctx context.Context, customerID types.ID) (int64, error) {
	if customerID == "" {
		return 0, ErrBadRequest
	}
	deleted, err := s.store.DeleteByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrEmptyCart
	}
	s.refreshCache(ctx, customerID)
	return deleted, nil
}

// Absorb removes one vendor's lines after they have been snapshotted into
// an order, then re-synchronizes the cache.
func (s *Service) Absorb(ctx context.Context, customerID types.ID, vendorName string) error {
	if _, err := s.store.DeleteByCustomerVendor(ctx, customerID, vendorName); err != nil {
		return err
	}
	s.refreshCache(ctx, customerID)
	return nil
}

type PriceCommand struct {
	CustomerID  types.ID
	VendorNames []string
	RatePerKm   int64
	Customer    types.Point
	OrderDate   string
	OrderTime   string
	Street      string
}

// PriceCart resolves each named vendor, computes its delivery fee, and
// writes the fee plus the order context onto every cart line belonging to
// that vendor. Vendors that do not resolve (or have no usable coordinates)
// are skipped; the call only fails when required context is missing.
func (s *Service) PriceCart(ctx context.Context, cmd PriceCommand) (map[string]int64, error) {
	if cmd.CustomerID == "" || len(cmd.VendorNames) == 0 || !cmd.Customer.Valid() ||
		cmd.OrderDate == "" || cmd.OrderTime == "" || cmd.Street == "" {
		return nil, ErrBadRequest
	}
	if cmd.RatePerKm <= 0 {
		return nil, ErrBadRequest
	}

	fees := map[string]int64{}
	for _, name := range cmd.VendorNames {
		vendor, err := s.dir.VendorByName(ctx, name)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				s.log.Warn().Str("vendor", name).Msg("vendor not found, skipping fee")
				continue
			}
			return nil, err
		}
		fee, err := s.fees.Fee(ctx, cmd.Customer, vendor.Coordinates(), cmd.RatePerKm)
		if err != nil {
			s.log.Warn().Err(err).Str("vendor", name).Msg("delivery fee not computable, skipping vendor")
			continue
		}
		fees[name] = fee
	}

	lines, err := s.store.ByCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		fee, ok := fees[line.VendorName]
		if !ok {
			continue
		}
		patch := Patch{
			DeliveryFee: &fee,
			Latitude:    &cmd.Customer.Lat,
			Longitude:   &cmd.Customer.Lng,
			Street:      &cmd.Street,
			OrderDate:   &cmd.OrderDate,
			OrderTime:   &cmd.OrderTime,
		}
		if _, err := s.store.Update(ctx, types.ID(line.ID.Hex()), patch); err != nil {
			return nil, err
		}
		s.refreshCache(ctx, cmd.CustomerID)
	}

	return fees, nil
}

// refreshCache overwrites the customer's cart projection with the current
// store state. Failures are logged, never propagated: the store write
// already committed and the cache is advisory.
func (s *Service) refreshCache(ctx context.Context, customerID types.ID) {
	lines, err := s.store.ByCustomer(ctx, customerID)
	if err != nil {
		s.log.Warn().Err(err).Str("customer", string(customerID)).Msg("cart reload for cache refresh failed")
		return
	}
	s.writeCache(ctx, customerID, lines)
}

func (s *Service) writeCache(ctx context.Context, customerID types.ID, lines []CartLine) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.log.Error().Err(err).Msg("cart cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, cartKey(string(customerID)), raw); err != nil {
		s.log.Warn().Err(err).Str("customer", string(customerID)).Msg("cart cache write failed")
	}
}
