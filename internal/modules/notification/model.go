// README: Notification record; created as a side effect of order creation or rider assignment, never mutated.
package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID  primitive.ObjectID `bson:"vendorId,omitempty" json:"vendorId,omitempty"`
	RiderID   primitive.ObjectID `bson:"riderId,omitempty" json:"riderId,omitempty"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
