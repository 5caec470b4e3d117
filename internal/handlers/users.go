package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metarelay/api/internal/response"
)

// ListUsers is the plain read endpoint. Password hashes and verification
// tokens never serialize (model json tags).
func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, "Users fetched.", users)
}

func (h HandlerSet) Root(c *gin.Context) {
	response.JSON(c, http.StatusOK, "OK", nil)
}
