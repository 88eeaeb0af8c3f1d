// README: Cached read endpoints for the vendor directory and vendor menus.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eats/internal/modules/directory"
	"eats/internal/types"
)

type DirectoryHandler struct {
	dir *directory.Service
}

func NewDirectoryHandler(svc *directory.Service) *DirectoryHandler {
	return &DirectoryHandler{dir: svc}
}

func (h *DirectoryHandler) Vendors(c *gin.Context) {
	vendors, err := h.dir.Vendors(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *DirectoryHandler) Menu(c *gin.Context) {
	menu, err := h.dir.MenuByVendor(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, menu)
}
