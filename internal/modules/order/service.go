// README: Order lifecycle manager; per-vendor materialization, status updates, and the rider-assignment invariant.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eats/internal/modules/cart"
	"eats/internal/modules/directory"
	"eats/internal/types"
)

var (
	ErrBadRequest     = errors.New("missing or invalid required field")
	ErrNotFound       = errors.New("order not found")
	ErrEmptyCart      = errors.New("this customer's cart is empty")
	ErrNoValidVendors = errors.New("no valid vendors found")
	ErrRiderConflict  = errors.New("this order is already assigned to a rider")
)

// Carts is the slice of the cart aggregator the lifecycle manager needs:
// the durable cart read and the post-materialization absorption.
type Carts interface {
	Lines(ctx context.Context, customerID types.ID) ([]cart.CartLine, error)
	Absorb(ctx context.Context, customerID types.ID, vendorName string) error
}

// Directory resolves vendors and records rider order references.
type Directory interface {
	VendorByName(ctx context.Context, name string) (directory.Vendor, error)
	RiderByID(ctx context.Context, id types.ID) (directory.Rider, error)
	AppendRiderOrder(ctx context.Context, riderID types.ID, ref directory.OrderRef) error
}

// Notifier persists and fans out notifications; it must never fail the
// triggering operation for a delivery problem.
type Notifier interface {
	NotifyVendor(ctx context.Context, vendorID types.ID, message string) error
	NotifyRider(ctx context.Context, riderID types.ID, message string) error
}

// Store is the durable order persistence.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	ByID(ctx context.Context, id types.ID) (Order, error)
	ByVendor(ctx context.Context, vendorName string) ([]Order, error)
	ByCustomer(ctx context.Context, customerID types.ID) ([]Order, error)
	UpdateStatus(ctx context.Context, id types.ID, status Status, riderID primitive.ObjectID, riderName string) (Order, bool, error)
	Delete(ctx context.Context, id types.ID) error
	DeleteByVendor(ctx context.Context, vendorName string) (int64, error)
}

type Service struct {
	store    Store
	carts    Carts
	dir      Directory
	notifier Notifier
	log      zerolog.Logger
}

func NewService(store Store, carts Carts, dir Directory, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{store: store, carts: carts, dir: dir, notifier: notifier, log: log}
}

// CreateOrders converts the customer's priced cart into one order per
// distinct valid vendor. Vendors that do not resolve, or have no lines in
// the cart, are skipped with a logged failure; the call only fails when
// nothing could be created.
func (s *Service) CreateOrders(ctx context.Context, customerID types.ID, vendorNames []string) ([]Order, error) {
	if customerID == "" || len(vendorNames) == 0 {
		return nil, ErrBadRequest
	}
	lines, err := s.carts.Lines(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	customerOID, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return nil, ErrBadRequest
	}

	orders := []Order{}
	processed := map[string]bool{}
	for _, vendorName := range vendorNames {
		if processed[vendorName] {
			continue
		}
		processed[vendorName] = true

		vendor, err := s.dir.VendorByName(ctx, vendorName)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				s.log.Error().Str("vendor", vendorName).Msg("vendor not found, skipping order")
				continue
			}
			return nil, err
		}

		var vendorLines []cart.CartLine
		var total int64
		for _, line := range lines {
			if line.VendorName == vendorName {
				vendorLines = append(vendorLines, line)
				total += line.Price
			}
		}
		if len(vendorLines) == 0 {
			s.log.Warn().Str("vendor", vendorName).Msg("no cart lines for vendor, skipping order")
			continue
		}

		number, err := newOrderNumber()
		if err != nil {
			return nil, err
		}
		o := Order{
			OrderNumber:  number,
			CustomerID:   customerOID,
			VendorName:   vendor.Name,
			CustomerCart: vendorLines,
			Status:       StatusPending,
			TotalAmount:  total,
		}
		if err := s.store.Insert(ctx, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		s.log.Info().Str("customer", string(customerID)).Str("vendor", o.VendorName).
			Str("orderNumber", o.OrderNumber).Msg("order created")

		// The lines now live on as the order's snapshot.
		if err := s.carts.Absorb(ctx, customerID, vendorName); err != nil {
			s.log.Error().Err(err).Str("vendor", vendorName).Msg("cart absorption failed")
		}

		msg := fmt.Sprintf("You have received a new order - Order No #%s from a customer. "+
			"Check the order details on the dashboard and prepare the delicious dishes for delivery.", o.OrderNumber)
		if err := s.notifier.NotifyVendor(ctx, types.ID(vendor.ID.Hex()), msg); err != nil {
			s.log.Error().Err(err).Str("vendor", vendorName).Msg("vendor notification failed")
		}
	}

	if len(orders) == 0 {
		return nil, ErrNoValidVendors
	}
	return orders, nil
}

type UpdateCommand struct {
	OrderID   types.ID
	Status    Status
	RiderID   types.ID
	RiderName string
}

// UpdateStatus applies whichever of status/rider were supplied. Once an
// order carries a rider, supplying a different rider fails with a
// conflict; the same rider, or none, passes through. The store reports
// whether this update bound the rider, so assignment side effects run
// exactly once even under racing updates.
func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateCommand) (Order, error) {
	if cmd.OrderID == "" {
		return Order{}, ErrBadRequest
	}
	if cmd.Status == "" && cmd.RiderID == "" {
		return Order{}, ErrBadRequest
	}

	var riderOID primitive.ObjectID
	if cmd.RiderID != "" {
		if cmd.RiderName == "" {
			return Order{}, ErrBadRequest
		}
		oid, err := primitive.ObjectIDFromHex(string(cmd.RiderID))
		if err != nil {
			return Order{}, ErrBadRequest
		}
		riderOID = oid
	}

	updated, bound, err := s.store.UpdateStatus(ctx, cmd.OrderID, cmd.Status, riderOID, cmd.RiderName)
	if err != nil {
		return Order{}, err
	}
	if bound {
		s.onRiderAssigned(ctx, updated)
	}
	return updated, nil
}

// onRiderAssigned records the order on the rider and notifies them.
// Failures here never undo the assignment; they are logged and left for
// the inbox query to miss.
func (s *Service) onRiderAssigned(ctx context.Context, o Order) {
	riderID := types.ID(o.RiderID.Hex())
	ref := directory.OrderRef{OrderID: o.ID, OrderNumber: o.OrderNumber, VendorName: o.VendorName}
	if err := s.dir.AppendRiderOrder(ctx, riderID, ref); err != nil {
		s.log.Error().Err(err).Str("rider", string(riderID)).Msg("rider order append failed")
	}
	msg := fmt.Sprintf("You have been assigned a new order - Order No #%s from a vendor. "+
		"Check the order details on the dashboard and deliver the dishes to customer.", o.OrderNumber)
	if err := s.notifier.NotifyRider(ctx, riderID, msg); err != nil {
		s.log.Error().Err(err).Str("rider", string(riderID)).Msg("rider notification failed")
	}
}

func (s *Service) ByID(ctx context.Context, id types.ID) (Order, error) {
	return s.store.ByID(ctx, id)
}

func (s *Service) ByVendor(ctx context.Context, vendorName string) ([]Order, error) {
	if vendorName == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByVendor(ctx, vendorName)
}

func (s *Service) ByCustomer(ctx context.Context, customerID types.ID) ([]Order, error) {
	if customerID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByCustomer(ctx, customerID)
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrBadRequest
	}
	return s.store.Delete(ctx, id)
}

// DeleteByVendor hard-deletes every order for the vendor; zero matches is
// reported as not found, not as success.
func (s *Service) DeleteByVendor(ctx context.Context, vendorName string) (int64, error) {
	if vendorName == "" {
		return 0, ErrBadRequest
	}
	deleted, err := s.store.DeleteByVendor(ctx, vendorName)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return deleted, nil
}
