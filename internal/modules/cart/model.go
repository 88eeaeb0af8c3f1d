// README: Cart line aggregate; one vendor item a customer intends to order.
package cart

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine denormalizes vendor and customer fields at write time so the
// read path and the order snapshot never need joins.
type CartLine struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	Customer        string             `bson:"customer" json:"customer"`
	CustomerContact string             `bson:"customerContact" json:"customerContact"`
	CustomerEmail   string             `bson:"customerEmail" json:"customerEmail"`
	ItemID          primitive.ObjectID `bson:"itemId" json:"itemId"`
	VendorName      string             `bson:"vendorName" json:"vendorName"`
	VendorContact   string             `bson:"vendorContact" json:"vendorContact"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           int64              `bson:"price" json:"price"`
	Quantity        int64              `bson:"quantity" json:"quantity"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	DeliveryFee     int64              `bson:"deliveryFee" json:"deliveryFee"`
	Latitude        float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude       float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Street          string             `bson:"street,omitempty" json:"street,omitempty"`
	OrderDate       string             `bson:"orderDate,omitempty" json:"orderDate,omitempty"`
	OrderTime       string             `bson:"orderTime,omitempty" json:"orderTime,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Patch is the documented set of optional cart-line fields a partial
// update may touch. Unknown fields are rejected at the HTTP boundary.
type Patch struct {
	Quantity    *int64   `json:"quantity,omitempty"`
	Description *string  `json:"description,omitempty"`
	DeliveryFee *int64   `json:"deliveryFee,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Street      *string  `json:"street,omitempty"`
	OrderDate   *string  `json:"orderDate,omitempty"`
	OrderTime   *string  `json:"orderTime,omitempty"`
}

// Empty reports whether the patch would touch nothing.
func (p Patch) Empty() bool {
	return p.Quantity == nil && p.Description == nil && p.DeliveryFee == nil &&
		p.Latitude == nil && p.Longitude == nil && p.Street == nil &&
		p.OrderDate == nil && p.OrderTime == nil
}
