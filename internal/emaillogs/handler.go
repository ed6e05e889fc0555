package emaillogs

import (
	"github.com/gin-gonic/gin"

	"github.com/forumdeeptech/inscriptions/pkg/response"
)

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /api/emails. Returns confirmation attempts, newest first.
func (h *Handler) List(c *gin.Context) {
	logs, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "Erreur lors de la lecture", err.Error())
		return
	}
	response.OK(c, logs)
}
