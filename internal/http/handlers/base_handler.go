// README: Base handler utilities (strict JSON binding, error mapping).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eats/internal/modules/cart"
	"eats/internal/modules/notification"
	"eats/internal/modules/order"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// bindStrict decodes the request body rejecting unknown fields, so clients
// cannot smuggle arbitrary shape into the documented optional-field set.
func bindStrict(c *gin.Context, v any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeCartError maps cart failures. Historically every cart failure,
// missing lines included, surfaces as a 400.
func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrBadRequest),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrDuplicateItem),
		errors.Is(err, cart.ErrUnknownItem),
		errors.Is(err, cart.ErrNoCustomer),
		errors.Is(err, cart.ErrEmptyCart):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrNoValidVendors):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrRiderConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeNotificationError(c *gin.Context, err error) {
	if errors.Is(err, notification.ErrBadRequest) {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "internal error")
}
