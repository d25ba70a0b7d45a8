package api

import (
	"net/http"

	"github.com/Domenick1991/cinema/internal/service/history"
	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	service history.HistoryUseCase
}

func NewHistoryHandler(service history.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

func (h *HistoryHandler) list(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Query("email"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
