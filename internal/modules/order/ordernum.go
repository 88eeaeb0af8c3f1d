// README: Short human-shareable order numbers.
package order

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	orderNumberAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberLength   = 6
)

// newOrderNumber generates a 6-character alphanumeric order number.
// Collisions are not checked; at this volume the 62^6 space makes them
// acceptable.
func newOrderNumber() (string, error) {
	return gonanoid.Generate(orderNumberAlphabet, orderNumberLength)
}
