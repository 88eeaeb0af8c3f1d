// README: Cart handlers for line CRUD, note appending, and delivery-fee pricing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eats/internal/config"
	"eats/internal/modules/cart"
	"eats/internal/types"
)

type CartHandler struct {
	cart    *cart.Service
	pricing config.PricingConfig
}

func NewCartHandler(svc *cart.Service, pricing config.PricingConfig) *CartHandler {
	return &CartHandler{cart: svc, pricing: pricing}
}

type addLineReq struct {
	CustomerID  string `json:"customerId"`
	ItemID      string `json:"itemId"`
	Quantity    int64  `json:"quantity"`
	DeliveryFee int64  `json:"deliveryFee"`
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var req addLineReq
	if !bindStrict(c, &req) {
		return
	}
	line, err := h.cart.AddLine(c.Request.Context(), cart.AddCommand{
		CustomerID:  types.ID(req.CustomerID),
		ItemID:      types.ID(req.ItemID),
		Quantity:    req.Quantity,
		DeliveryFee: req.DeliveryFee,
	})
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var patch cart.Patch
	if !bindStrict(c, &patch) {
		return
	}
	line, err := h.cart.UpdateLine(c.Request.Context(), types.ID(c.Param("id")), patch)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

type appendNoteReq struct {
	ExtraNote string `json:"extraNote"`
}

func (h *CartHandler) AppendNote(c *gin.Context) {
	var req appendNoteReq
	if !bindStrict(c, &req) {
		return
	}
	line, err := h.cart.AppendNote(c.Request.Context(), types.ID(c.Param("id")), req.ExtraNote)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.cart.GetCart(c.Request.Context(), types.ID(c.Param("customerId")))
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	if err := h.cart.RemoveLine(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	deleted, err := h.cart.ClearCart(c.Request.Context(), types.ID(c.Param("customerId")))
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart items deleted", "deleted": deleted})
}

type priceCartReq struct {
	VendorNames []string `json:"vendorNames"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OrderDate   string   `json:"orderDate"`
	OrderTime   string   `json:"orderTime"`
	Street      string   `json:"street"`
}

func (h *CartHandler) PriceCart(c *gin.Context) {
	var req priceCartReq
	if !bindStrict(c, &req) {
		return
	}
	fees, err := h.cart.PriceCart(c.Request.Context(), cart.PriceCommand{
		CustomerID:  types.ID(c.Param("customerId")),
		VendorNames: req.VendorNames,
		RatePerKm:   h.pricing.RatePerKm,
		Customer:    types.Point{Lat: req.Latitude, Lng: req.Longitude},
		OrderDate:   req.OrderDate,
		OrderTime:   req.OrderTime,
		Street:      req.Street,
	})
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendorDeliveryFees": fees})
}
