package order

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eats/internal/modules/cart"
	"eats/internal/modules/directory"
	"eats/internal/types"
)

// memOrders is an in-memory Store with the same compare-and-set rider
// semantics as the Mongo store, safe for concurrent use.
type memOrders struct {
	mu     sync.Mutex
	orders map[string]Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]Order{}}
}

func (m *memOrders) Insert(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	m.orders[o.ID.Hex()] = *o
	return nil
}

func (m *memOrders) ByID(ctx context.Context, id types.ID) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[string(id)]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (m *memOrders) ByVendor(ctx context.Context, vendorName string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for _, o := range m.orders {
		if o.VendorName == vendorName {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) ByCustomer(ctx context.Context, customerID types.ID) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for _, o := range m.orders {
		if o.CustomerID.Hex() == string(customerID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id types.ID, status Status, riderID primitive.ObjectID, riderName string) (Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[string(id)]
	if !ok {
		return Order{}, false, ErrNotFound
	}
	bound := false
	if !riderID.IsZero() {
		if !o.RiderID.IsZero() && o.RiderID != riderID {
			return Order{}, false, ErrRiderConflict
		}
		bound = o.RiderID.IsZero()
		o.RiderID = riderID
		o.RiderName = riderName
	}
	if status != "" {
		o.Status = status
	}
	m.orders[string(id)] = o
	return o, bound, nil
}

func (m *memOrders) Delete(ctx context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[string(id)]; !ok {
		return ErrNotFound
	}
	delete(m.orders, string(id))
	return nil
}

func (m *memOrders) DeleteByVendor(ctx context.Context, vendorName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, o := range m.orders {
		if o.VendorName == vendorName {
			delete(m.orders, id)
			n++
		}
	}
	return n, nil
}

// fakeCarts serves a fixed set of lines and records absorptions.
type fakeCarts struct {
	mu       sync.Mutex
	lines    []cart.CartLine
	absorbed []string
}

func (f *fakeCarts) Lines(ctx context.Context, customerID types.ID) ([]cart.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]cart.CartLine, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeCarts) Absorb(ctx context.Context, customerID types.ID, vendorName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.VendorName != vendorName {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	f.absorbed = append(f.absorbed, vendorName)
	return nil
}

type fakeDirectory struct {
	mu      sync.Mutex
	vendors map[string]directory.Vendor
	riders  map[string]directory.Rider
	refs    map[string][]directory.OrderRef
}

func (d *fakeDirectory) VendorByName(ctx context.Context, name string) (directory.Vendor, error) {
	v, ok := d.vendors[name]
	if !ok {
		return directory.Vendor{}, directory.ErrNotFound
	}
	return v, nil
}

func (d *fakeDirectory) RiderByID(ctx context.Context, id types.ID) (directory.Rider, error) {
	r, ok := d.riders[string(id)]
	if !ok {
		return directory.Rider{}, directory.ErrNotFound
	}
	return r, nil
}

func (d *fakeDirectory) AppendRiderOrder(ctx context.Context, riderID types.ID, ref directory.OrderRef) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs == nil {
		d.refs = map[string][]directory.OrderRef{}
	}
	for _, existing := range d.refs[string(riderID)] {
		if existing.OrderID == ref.OrderID {
			return nil
		}
	}
	d.refs[string(riderID)] = append(d.refs[string(riderID)], ref)
	return nil
}

// recordingNotifier persists nothing; it just counts deliveries.
type recordingNotifier struct {
	mu     sync.Mutex
	vendor []string
	rider  []string
}

func (n *recordingNotifier) NotifyVendor(ctx context.Context, vendorID types.ID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vendor = append(n.vendor, message)
	return nil
}

func (n *recordingNotifier) NotifyRider(ctx context.Context, riderID types.ID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rider = append(n.rider, message)
	return nil
}

type orderFixture struct {
	svc        *Service
	store      *memOrders
	carts      *fakeCarts
	dir        *fakeDirectory
	notifier   *recordingNotifier
	customerID types.ID
	riderID    types.ID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	custOID := primitive.NewObjectID()
	riderOID := primitive.NewObjectID()

	carts := &fakeCarts{lines: []cart.CartLine{
		{
			ID: primitive.NewObjectID(), CustomerID: custOID,
			VendorName: "Mama Oliech", Name: "Tilapia", Price: 850, Quantity: 2, DeliveryFee: 95,
		},
		{
			ID: primitive.NewObjectID(), CustomerID: custOID,
			VendorName: "Mama Oliech", Name: "Ugali", Price: 100, Quantity: 1, DeliveryFee: 95,
		},
		{
			ID: primitive.NewObjectID(), CustomerID: custOID,
			VendorName: "Burger Stop", Name: "Double Cheese", Price: 600, Quantity: 1, DeliveryFee: 45,
		},
	}}

	dir := &fakeDirectory{
		vendors: map[string]directory.Vendor{
			"Mama Oliech": {ID: primitive.NewObjectID(), Name: "Mama Oliech"},
			"Burger Stop": {ID: primitive.NewObjectID(), Name: "Burger Stop"},
		},
		riders: map[string]directory.Rider{
			riderOID.Hex(): {ID: riderOID, Name: "Otieno"},
		},
	}

	store := newMemOrders()
	notifier := &recordingNotifier{}
	svc := NewService(store, carts, dir, notifier, zerolog.Nop())

	return &orderFixture{
		svc:        svc,
		store:      store,
		carts:      carts,
		dir:        dir,
		notifier:   notifier,
		customerID: types.ID(custOID.Hex()),
		riderID:    types.ID(riderOID.Hex()),
	}
}

func TestCreateOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	orders, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Mama Oliech", "Burger Stop"})
	if err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}

	byVendor := map[string]Order{}
	for _, o := range orders {
		byVendor[o.VendorName] = o
		if o.Status != StatusPending {
			t.Errorf("order %s status = %q, want %q", o.VendorName, o.Status, StatusPending)
		}
		if len(o.OrderNumber) != 6 {
			t.Errorf("order number %q, want 6 characters", o.OrderNumber)
		}
		if !o.RiderID.IsZero() {
			t.Errorf("new order should have no rider")
		}
	}

	// Total is the sum of the line prices; the delivery fee is carried on
	// the snapshotted lines, not in the total.
	if got := byVendor["Mama Oliech"].TotalAmount; got != 950 {
		t.Errorf("Mama Oliech total = %d, want 950", got)
	}
	if got := byVendor["Burger Stop"].TotalAmount; got != 600 {
		t.Errorf("Burger Stop total = %d, want 600", got)
	}
	if got := len(byVendor["Mama Oliech"].CustomerCart); got != 2 {
		t.Errorf("Mama Oliech snapshot has %d lines, want 2", got)
	}

	// Both vendors' lines were absorbed out of the cart.
	if len(f.carts.absorbed) != 2 || len(f.carts.lines) != 0 {
		t.Errorf("absorbed = %v, remaining lines = %d", f.carts.absorbed, len(f.carts.lines))
	}

	if len(f.notifier.vendor) != 2 {
		t.Errorf("got %d vendor notifications, want 2", len(f.notifier.vendor))
	}
	for _, msg := range f.notifier.vendor {
		if !strings.Contains(msg, "Order No #") {
			t.Errorf("notification missing order number: %q", msg)
		}
	}
}

func TestCreateOrders_UnknownVendorSkipped(t *testing.T) {
	f := newOrderFixture(t)

	orders, err := f.svc.CreateOrders(context.Background(), f.customerID, []string{"Ghost Kitchen", "Mama Oliech"})
	if err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}
	if len(orders) != 1 || orders[0].VendorName != "Mama Oliech" {
		t.Errorf("orders = %+v, want only Mama Oliech", orders)
	}
}

func TestCreateOrders_DuplicateVendorNamesCollapse(t *testing.T) {
	f := newOrderFixture(t)

	orders, err := f.svc.CreateOrders(context.Background(), f.customerID, []string{"Mama Oliech", "Mama Oliech"})
	if err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("got %d orders, want 1", len(orders))
	}
}

func TestCreateOrders_Failures(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateOrders(ctx, "", []string{"Mama Oliech"}); err != ErrBadRequest {
		t.Errorf("missing customer: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.CreateOrders(ctx, f.customerID, nil); err != ErrBadRequest {
		t.Errorf("no vendors: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Ghost Kitchen"}); err != ErrNoValidVendors {
		t.Errorf("all vendors unknown: err = %v, want ErrNoValidVendors", err)
	}

	f.carts.lines = nil
	if _, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Mama Oliech"}); err != ErrEmptyCart {
		t.Errorf("empty cart: err = %v, want ErrEmptyCart", err)
	}
}

func TestUpdateStatus_StatusOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	orders, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Mama Oliech"})
	if err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}
	orderID := types.ID(orders[0].ID.Hex())

	updated, err := f.svc.UpdateStatus(ctx, UpdateCommand{OrderID: orderID, Status: StatusDelivered})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != StatusDelivered {
		t.Errorf("status = %q, want %q", updated.Status, StatusDelivered)
	}
	if !updated.RiderID.IsZero() {
		t.Errorf("status-only update must not bind a rider")
	}
}

func TestUpdateStatus_RiderAssignment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	orders, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Mama Oliech"})
	if err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}
	orderID := types.ID(orders[0].ID.Hex())

	updated, err := f.svc.UpdateStatus(ctx, UpdateCommand{
		OrderID: orderID, Status: StatusAssigned, RiderID: f.riderID, RiderName: "Otieno",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.RiderID.Hex() != string(f.riderID) || updated.RiderName != "Otieno" {
		t.Errorf("rider not bound: %+v", updated)
	}

	// The order was recorded on the rider and the rider was notified.
	refs := f.dir.refs[string(f.riderID)]
	if len(refs) != 1 || refs[0].OrderNumber != orders[0].OrderNumber {
		t.Errorf("rider refs = %+v", refs)
	}
	if len(f.notifier.rider) != 1 {
		t.Errorf("got %d rider notifications, want 1", len(f.notifier.rider))
	}

	// The same rider may re-apply without conflict, and without a second
	// assignment side effect.
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{
		OrderID: orderID, RiderID: f.riderID, RiderName: "Otieno",
	}); err != nil {
		t.Fatalf("same-rider update error = %v", err)
	}
	if len(f.notifier.rider) != 1 {
		t.Errorf("re-assignment must not re-notify, got %d", len(f.notifier.rider))
	}

	// A different rider is a conflict.
	other := types.ID(primitive.NewObjectID().Hex())
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{
		OrderID: orderID, RiderID: other, RiderName: "Mwangi",
	}); err != ErrRiderConflict {
		t.Errorf("different rider: err = %v, want ErrRiderConflict", err)
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{}); err != ErrBadRequest {
		t.Errorf("empty command: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{OrderID: "abc"}); err != ErrBadRequest {
		t.Errorf("no status and no rider: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{OrderID: "abc", RiderID: f.riderID}); err != ErrBadRequest {
		t.Errorf("rider without name: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{OrderID: "abc", RiderID: "not-a-hex-id", RiderName: "x"}); err != ErrBadRequest {
		t.Errorf("malformed rider id: err = %v, want ErrBadRequest", err)
	}

	ghost := types.ID(primitive.NewObjectID().Hex())
	if _, err := f.svc.UpdateStatus(ctx, UpdateCommand{OrderID: ghost, Status: StatusDelivered}); err != ErrNotFound {
		t.Errorf("unknown order: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteByVendor(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	if _, err := f.svc.DeleteByVendor(ctx, "Mama Oliech"); err != ErrNotFound {
		t.Errorf("no orders yet: err = %v, want ErrNotFound", err)
	}

	if _, err := f.svc.CreateOrders(ctx, f.customerID, []string{"Mama Oliech", "Burger Stop"}); err != nil {
		t.Fatalf("CreateOrders() error = %v", err)
	}

	deleted, err := f.svc.DeleteByVendor(ctx, "Mama Oliech")
	if err != nil {
		t.Fatalf("DeleteByVendor() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, err := f.svc.ByVendor(ctx, "Burger Stop")
	if err != nil {
		t.Fatalf("ByVendor() error = %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("Burger Stop orders = %d, want 1", len(remaining))
	}
}
