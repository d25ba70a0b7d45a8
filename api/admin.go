package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/cinema/internal/service/admin"
	"github.com/Domenick1991/cinema/internal/service/history"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service admin.AdminUseCase
	records history.HistoryUseCase
}

func NewAdminHandler(service admin.AdminUseCase, records history.HistoryUseCase) *AdminHandler {
	return &AdminHandler{service: service, records: records}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/movies", create(h.service.CreateMovie))
	router.PUT("/movies/:id", update(h.service.UpdateMovie))
	router.DELETE("/movies/:id", remove(h.service.DeleteMovie))

	router.POST("/rooms", create(h.service.CreateRoom))
	router.PUT("/rooms/:id", update(h.service.UpdateRoom))
	router.DELETE("/rooms/:id", remove(h.service.DeleteRoom))

	router.POST("/sessions", create(h.service.CreateSession))
	router.PUT("/sessions/:id", update(h.service.UpdateSession))
	router.DELETE("/sessions/:id", remove(h.service.DeleteSession))

	router.POST("/combos", create(h.service.CreateCombo))
	router.PUT("/combos/:id", update(h.service.UpdateCombo))
	router.DELETE("/combos/:id", remove(h.service.DeleteCombo))

	router.GET("/tickets", h.tickets)
	router.POST("/tickets/:id/cancel", h.cancelTicket)
}

func (h *AdminHandler) tickets(c *gin.Context) {
	report, err := h.records.Tickets(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) cancelTicket(c *gin.Context) {
	ticket, err := h.records.CancelTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func create[D, E any](save func(context.Context, D) (E, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft D
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entity, err := save(c.Request.Context(), draft)
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, entity)
	}
}

func update[D, E any](save func(context.Context, string, D) (E, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft D
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entity, err := save(c.Request.Context(), c.Param("id"), draft)
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, entity)
	}
}

func remove(del func(context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := del(c.Request.Context(), c.Param("id")); err != nil {
			abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
