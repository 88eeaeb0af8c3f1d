// README: Order aggregate and status definitions.
package order

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eats/internal/modules/cart"
)

type Status string

// Known statuses. The lifecycle only fixes the initial status and the
// rider-assignment guard; any status string may be written by an
// authorized caller.
const (
	StatusPending   Status = "Pending"
	StatusAssigned  Status = "Assigned"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Order is an immutable-after-creation grouping of one customer's cart
// lines for a single vendor. Only the status and the one-time rider
// binding change after creation.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber  string             `bson:"orderNumber" json:"orderNumber"`
	CustomerID   primitive.ObjectID `bson:"customerId" json:"customerId"`
	VendorName   string             `bson:"vendorName" json:"vendorName"`
	CustomerCart []cart.CartLine    `bson:"customerCart" json:"customerCart"`
	Status       Status             `bson:"status" json:"status"`
	TotalAmount  int64              `bson:"totalAmount" json:"totalAmount"`
	RiderID      primitive.ObjectID `bson:"riderId,omitempty" json:"riderId,omitempty"`
	RiderName    string             `bson:"riderName,omitempty" json:"riderName,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
