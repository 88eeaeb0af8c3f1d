// README: Directory store backed by Mongo collections owned by the profile subsystem.
package directory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eats/internal/types"
)

var ErrNotFound = errors.New("directory: not found")

type MongoStore struct {
	vendors   *mongo.Collection
	customers *mongo.Collection
	riders    *mongo.Collection
	menus     *mongo.Collection
	timeout   time.Duration
}

func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{
		vendors:   db.Collection("vendors"),
		customers: db.Collection("customers"),
		riders:    db.Collection("riders"),
		menus:     db.Collection("menus"),
		timeout:   timeout,
	}
}

// opCtx bounds one store call; a hung Mongo node fails the operation
// instead of parking the request goroutine.
func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) VendorByName(ctx context.Context, name string) (Vendor, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var v Vendor
	err := s.vendors.FindOne(ctx, bson.M{"name": name}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Vendor{}, ErrNotFound
	}
	return v, err
}

func (s *MongoStore) VendorByID(ctx context.Context, id types.ID) (Vendor, error) {
	oid, err := objectID(id)
	if err != nil {
		return Vendor{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var v Vendor
	err = s.vendors.FindOne(ctx, bson.M{"_id": oid}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Vendor{}, ErrNotFound
	}
	return v, err
}

func (s *MongoStore) Vendors(ctx context.Context) ([]Vendor, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.vendors.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []Vendor{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) CustomerByID(ctx context.Context, id types.ID) (Customer, error) {
	oid, err := objectID(id)
	if err != nil {
		return Customer{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var c Customer
	err = s.customers.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (s *MongoStore) RiderByID(ctx context.Context, id types.ID) (Rider, error) {
	oid, err := objectID(id)
	if err != nil {
		return Rider{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var r Rider
	err = s.riders.FindOne(ctx, bson.M{"_id": oid}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Rider{}, ErrNotFound
	}
	return r, err
}

func (s *MongoStore) MenuItemByID(ctx context.Context, id types.ID) (MenuItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return MenuItem{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var m MenuItem
	err = s.menus.FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MenuItem{}, ErrNotFound
	}
	return m, err
}

func (s *MongoStore) MenuByVendor(ctx context.Context, vendorID types.ID) ([]MenuItem, error) {
	oid, err := objectID(vendorID)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.menus.Find(ctx, bson.M{"vendorID": oid})
	if err != nil {
		return nil, err
	}
	out := []MenuItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendRiderOrder records an order on the rider's embedded order list,
// skipping the append when the reference is already present.
func (s *MongoStore) AppendRiderOrder(ctx context.Context, riderID types.ID, ref OrderRef) error {
	oid, err := objectID(riderID)
	if err != nil {
		return ErrNotFound
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.riders.UpdateOne(opCtx,
		bson.M{"_id": oid, "order.orderId": bson.M{"$ne": ref.OrderID}},
		bson.M{"$push": bson.M{"order": ref}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the rider does not exist or the order is already listed.
		if _, err := s.RiderByID(ctx, riderID); err != nil {
			return err
		}
	}
	return nil
}

func objectID(id types.ID) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}
