// README: Order handlers for creation, status updates, queries, and purges.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eats/internal/modules/order"
	"eats/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type createOrdersReq struct {
	CustomerID  string   `json:"customerId"`
	VendorNames []string `json:"vendorNames"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrdersReq
	if !bindStrict(c, &req) {
		return
	}
	orders, err := h.order.CreateOrders(c.Request.Context(), types.ID(req.CustomerID), req.VendorNames)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type updateOrderReq struct {
	Status    string `json:"status"`
	RiderID   string `json:"riderId"`
	RiderName string `json:"riderName"`
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req updateOrderReq
	if !bindStrict(c, &req) {
		return
	}
	o, err := h.order.UpdateStatus(c.Request.Context(), order.UpdateCommand{
		OrderID:   types.ID(c.Param("id")),
		Status:    order.Status(req.Status),
		RiderID:   types.ID(req.RiderID),
		RiderName: req.RiderName,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.ByID(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// List answers both by-vendor and by-customer lookups via query params.
func (h *OrderHandler) List(c *gin.Context) {
	if vendorName := c.Query("vendorName"); vendorName != "" {
		orders, err := h.order.ByVendor(c.Request.Context(), vendorName)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}
	if customerID := c.Query("customerId"); customerID != "" {
		orders, err := h.order.ByCustomer(c.Request.Context(), types.ID(customerID))
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}
	writeError(c, http.StatusBadRequest, "vendorName or customerId is required")
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.order.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		// Purging something that is already gone is a client mistake, not
		// a missing resource on a read path.
		if errors.Is(err, order.ErrNotFound) {
			writeError(c, http.StatusBadRequest, "the order you tried to delete does not exist")
			return
		}
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (h *OrderHandler) DeleteByVendor(c *gin.Context) {
	vendorName := c.Query("vendorName")
	if vendorName == "" {
		writeError(c, http.StatusBadRequest, "vendorName is required")
		return
	}
	deleted, err := h.order.DeleteByVendor(c.Request.Context(), vendorName)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(c, http.StatusBadRequest, "no orders found for this vendor")
			return
		}
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orders deleted", "deleted": deleted})
}
