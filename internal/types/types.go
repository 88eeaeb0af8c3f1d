// README: Common value types shared across modules.
package types

// ID is an opaque entity identifier (Mongo object id hex in production).
type ID string

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude" bson:"latitude"`
	Lng float64 `json:"longitude" bson:"longitude"`
}

// Valid reports whether the point carries usable coordinates. The zero
// value (0,0) is treated as absent; it sits in the Gulf of Guinea and only
// ever shows up when a client omitted the fields.
func (p Point) Valid() bool {
	if p.Lat == 0 && p.Lng == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
