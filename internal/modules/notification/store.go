// README: Notification store backed by the Mongo notifications collection.
package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eats/internal/types"
)

type MongoStore struct {
	notifications *mongo.Collection
	timeout       time.Duration
}

func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{notifications: db.Collection("notifications"), timeout: timeout}
}

// opCtx bounds one store call; a hung Mongo node fails the operation
// instead of parking the caller.
func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) Insert(ctx context.Context, n *Notification) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.CreatedAt = time.Now().UTC()
	_, err := s.notifications.InsertOne(ctx, n)
	return err
}

func (s *MongoStore) ByVendor(ctx context.Context, vendorID types.ID) ([]Notification, error) {
	oid, err := primitive.ObjectIDFromHex(string(vendorID))
	if err != nil {
		return []Notification{}, nil
	}
	return s.find(ctx, bson.M{"vendorId": oid})
}

func (s *MongoStore) ByRider(ctx context.Context, riderID types.ID) ([]Notification, error) {
	oid, err := primitive.ObjectIDFromHex(string(riderID))
	if err != nil {
		return []Notification{}, nil
	}
	return s.find(ctx, bson.M{"riderId": oid})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]Notification, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.notifications.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := []Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
