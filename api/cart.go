package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/cinema/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service cart.CartUseCase
}

func NewCartHandler(service cart.CartUseCase) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/items/:comboId", h.addItem)
	router.DELETE("/:id/items/:comboId", h.removeItem)
	router.POST("/:id/checkout", h.checkout)
}

func (h *CartHandler) create(c *gin.Context) {
	view, err := h.service.Create(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CartHandler) get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) addItem(c *gin.Context) {
	view, err := h.service.AddItem(c.Request.Context(), c.Param("id"), c.Param("comboId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) removeItem(c *gin.Context) {
	view, err := h.service.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("comboId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) checkout(c *gin.Context) {
	var details cart.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receipt, err := h.service.Checkout(c.Request.Context(), c.Param("id"), details)
	var partial *cart.PartialCheckoutError
	switch {
	case errors.As(err, &partial):
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "purchases": partial.Submitted})
	case err != nil:
		abort(c, err)
	default:
		c.JSON(http.StatusCreated, receipt)
	}
}
