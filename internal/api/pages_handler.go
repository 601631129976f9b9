package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

// PageReader defines the page lookup operations needed by the handler.
type PageReader interface {
	GetByID(ctx context.Context, id string) (*domain.GeneratedPage, error)
}

// PagesHandler handles generated page HTTP requests.
type PagesHandler struct {
	pages PageReader
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(pages PageReader) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// GetPage handles GET /api/v1/pages/:pageID.
func (h *PagesHandler) GetPage(c *gin.Context) {
	page, getErr := h.pages.GetByID(c.Request.Context(), c.Param("pageID"))
	if getErr != nil {
		respondError(c, getErr)
		return
	}

	c.JSON(http.StatusOK, page)
}
