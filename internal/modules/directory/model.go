// README: Actor and menu records owned by the auth/profile subsystem; the core only reads them.
package directory

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eats/internal/types"
)

type Vendor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Latitude    float64            `bson:"latitude" json:"latitude"`
	Longitude   float64            `bson:"longitude" json:"longitude"`
	FCMToken    string             `bson:"fcmToken,omitempty" json:"-"`
}

// Coordinates returns the vendor's location; Valid() is false when the
// vendor has never been geocoded.
func (v Vendor) Coordinates() types.Point {
	return types.Point{Lat: v.Latitude, Lng: v.Longitude}
}

type Customer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Email       string             `bson:"email" json:"email"`
}

// OrderRef is the embedded order reference appended to a rider when an
// order is assigned.
type OrderRef struct {
	OrderID     primitive.ObjectID `bson:"orderId" json:"orderId"`
	OrderNumber string             `bson:"orderNumber" json:"orderNumber"`
	VendorName  string             `bson:"vendorName" json:"vendorName"`
}

type Rider struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	VendorID primitive.ObjectID `bson:"vendorID,omitempty" json:"vendorID"`
	Orders   []OrderRef         `bson:"order" json:"order"`
	FCMToken string             `bson:"fcmToken,omitempty" json:"-"`
}

type MenuItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID      primitive.ObjectID `bson:"vendorID" json:"vendorID"`
	VendorName    string             `bson:"vendorName" json:"vendorName"`
	VendorContact string             `bson:"vendorContact" json:"vendorContact"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         int64              `bson:"price" json:"price"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
}
