// README: Order store backed by the Mongo orders collection; rider binding is a filter-level compare-and-swap.
package order

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eats/internal/types"
)

type MongoStore struct {
	orders  *mongo.Collection
	timeout time.Duration
}

func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{orders: db.Collection("orders"), timeout: timeout}
}

// opCtx bounds one store call; a hung Mongo node fails the operation
// instead of parking the request goroutine.
func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) Insert(ctx context.Context, o *Order) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := s.orders.InsertOne(ctx, o)
	return err
}

func (s *MongoStore) ByID(ctx context.Context, id types.ID) (Order, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return Order{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var o Order
	err = s.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (s *MongoStore) ByVendor(ctx context.Context, vendorName string) ([]Order, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.orders.Find(ctx, bson.M{"vendorName": vendorName})
	if err != nil {
		return nil, err
	}
	out := []Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) ByCustomer(ctx context.Context, customerID types.ID) ([]Order, error) {
	oid, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return []Order{}, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.orders.Find(ctx, bson.M{"customerId": oid})
	if err != nil {
		return nil, err
	}
	out := []Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus applies the supplied fields in one guarded update. When a
// rider is supplied, the filter only matches while the order is unbound or
// already bound to that same rider, closing the reassignment race at the
// store instead of read-compare-write. The bool result reports whether
// this call performed the unbound-to-bound transition, so the caller can
// run assignment side effects exactly once.
func (s *MongoStore) UpdateStatus(ctx context.Context, id types.ID, status Status, riderID primitive.ObjectID, riderName string) (Order, bool, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return Order{}, false, ErrNotFound
	}

	filter := bson.M{"_id": oid}
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if status != "" {
		set["status"] = status
	}
	if !riderID.IsZero() {
		// nil matches both a missing riderId field and an explicit null.
		filter["$or"] = bson.A{
			bson.M{"riderId": nil},
			bson.M{"riderId": riderID},
		}
		set["riderId"] = riderID
		set["riderName"] = riderName
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	// The pre-image tells us whether this update was the one that bound
	// the rider; the post-image is the pre-image plus the $set fields.
	var pre Order
	err = s.orders.FindOneAndUpdate(opCtx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&pre)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the order is gone or the rider guard rejected the swap.
		if _, lookupErr := s.ByID(ctx, id); lookupErr != nil {
			return Order{}, false, lookupErr
		}
		return Order{}, false, ErrRiderConflict
	}
	if err != nil {
		return Order{}, false, err
	}

	bound := !riderID.IsZero() && pre.RiderID.IsZero()
	o := pre
	o.UpdatedAt = now
	if status != "" {
		o.Status = status
	}
	if !riderID.IsZero() {
		o.RiderID = riderID
		o.RiderName = riderName
	}
	return o, bound, nil
}

func (s *MongoStore) Delete(ctx context.Context, id types.ID) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.orders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteByVendor(ctx context.Context, vendorName string) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.orders.DeleteMany(ctx, bson.M{"vendorName": vendorName})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
