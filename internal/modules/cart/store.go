// README: Cart store backed by the Mongo carts collection.
package cart

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
	carts   *mongo.Collection
	timeout time.Duration
}

func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{carts: db.Collection("carts"), timeout: timeout}
}

// opCtx bounds one store call; a hung Mongo node fails the operation
// instead of parking the request goroutine.
func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) Insert(ctx context.Context, line *CartLine) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if line.ID.IsZero() {
		line.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	line.CreatedAt = now
	line.UpdatedAt = now
	_, err := s.carts.InsertOne(ctx, line)
	return err
}

func (s *MongoStore) ByID(ctx context.Context, id types.ID) (CartLine, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return CartLine{}, ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var line CartLine
	err = s.carts.FindOne(ctx, bson.M{"_id": oid}).Decode(&line)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return CartLine{}, ErrNotFound
	}
	return line, err
}

func (s *MongoStore) ByCustomer(ctx context.Context, customerID types.ID) ([]CartLine, error) {
	oid, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return []CartLine{}, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.carts.Find(ctx, bson.M{"customerId": oid})
	if err != nil {
		return nil, err
	}
	lines := []CartLine{}
	if err := cur.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *MongoStore) ExistsByCustomerItem(ctx context.Context, customerID, itemID types.ID) (bool, error) {
	cid, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return false, nil
	}
	iid, err := primitive.ObjectIDFromHex(string(itemID))
	if err != nil {
		return false, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	n, err := s.carts.CountDocuments(ctx, bson.M{"customerId": cid, "itemId": iid})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoStore) Update(ctx context.Context, id types.ID, patch Patch) (CartLine, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return CartLine{}, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DeliveryFee != nil {
		set["deliveryFee"] = *patch.DeliveryFee
	}
	if patch.Latitude != nil {
		set["latitude"] = *patch.Latitude
	}
	if patch.Longitude != nil {
		set["longitude"] = *patch.Longitude
	}
	if patch.Street != nil {
		set["street"] = *patch.Street
	}
	if patch.OrderDate != nil {
		set["orderDate"] = *patch.OrderDate
	}
	if patch.OrderTime != nil {
		set["orderTime"] = *patch.OrderTime
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var line CartLine
	err = s.carts.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&line)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return CartLine{}, ErrNotFound
	}
	return line, err
}

func (s *MongoStore) Delete(ctx context.Context, id types.ID) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.carts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteByCustomer(ctx context.Context, customerID types.ID) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return 0, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.carts.DeleteMany(ctx, bson.M{"customerId": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteByCustomerVendor(ctx context.Context, customerID types.ID, vendorName string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return 0, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.carts.DeleteMany(ctx, bson.M{"customerId": oid, "vendorName": vendorName})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
