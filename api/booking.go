package api

import (
	"net/http"

	"github.com/Domenick1991/cinema/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking screen. It is addressed by session id; the
// token names one customer's booking of that session.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/:sessionId", h.start)
	router.GET("/:sessionId/:token", h.get)
	router.POST("/:sessionId/:token/seats/:seat", h.toggleSeat)
	router.POST("/:sessionId/:token/details", h.proceed)
	router.POST("/:sessionId/:token/back", h.back)
	router.POST("/:sessionId/:token/finalize", h.finalize)
	router.DELETE("/:sessionId/:token", h.discard)
}

func (h *BookingHandler) start(c *gin.Context) {
	view, err := h.service.Start(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *BookingHandler) get(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingHandler) toggleSeat(c *gin.Context) {
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.respond(c)(h.service.ToggleSeat(c.Request.Context(), c.Param("token"), c.Param("seat")))
}

func (h *BookingHandler) proceed(c *gin.Context) {
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.respond(c)(h.service.ProceedToDetails(c.Request.Context(), c.Param("token")))
}

func (h *BookingHandler) back(c *gin.Context) {
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.respond(c)(h.service.BackToSeats(c.Request.Context(), c.Param("token")))
}

func (h *BookingHandler) finalize(c *gin.Context) {
	var details booking.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.respond(c)(h.service.Finalize(c.Request.Context(), c.Param("token"), details))
}

func (h *BookingHandler) discard(c *gin.Context) {
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.service.Discard(c.Request.Context(), c.Param("token"))
	c.Status(http.StatusNoContent)
}

// lookup loads the booking named by the path and checks it belongs to the
// session in the path.
func (h *BookingHandler) lookup(c *gin.Context) (*booking.View, bool) {
	view, err := h.service.Get(c.Request.Context(), c.Param("token"))
	if err == nil && view.SessionID != c.Param("sessionId") {
		err = booking.ErrWorkflowNotFound
	}
	if err != nil {
		abort(c, err)
		return nil, false
	}
	return view, true
}

func (h *BookingHandler) respond(c *gin.Context) func(*booking.View, error) {
	return func(view *booking.View, err error) {
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
