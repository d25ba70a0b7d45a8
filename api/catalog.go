package api

import (
	"net/http"

	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only pages: movies, rooms, sessions and
// combos.
type CatalogHandler struct {
	service catalog.CatalogUseCase
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/catalog", h.snapshot)
	router.GET("/movies", h.movies)
	router.GET("/combos", h.combos)
	router.GET("/sessions", h.sessions)
	router.GET("/rooms", h.rooms)
	router.GET("/rooms/:id/seats", h.roomSeats)
}

func (h *CatalogHandler) snapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *CatalogHandler) movies(c *gin.Context) {
	movies, err := h.service.Movies(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *CatalogHandler) combos(c *gin.Context) {
	combos, err := h.service.Combos(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

// sessions lists every session, or only those on ?date=YYYY-MM-DD.
func (h *CatalogHandler) sessions(c *gin.Context) {
	page, err := h.service.SessionsPage(c.Request.Context(), c.Query("date"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) rooms(c *gin.Context) {
	rooms, err := h.service.RoomsPage(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *CatalogHandler) roomSeats(c *gin.Context) {
	view, err := h.service.RoomSeats(c.Request.Context(), c.Param("id"), c.Query("session"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
