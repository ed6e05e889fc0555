package inscriptions

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forumdeeptech/inscriptions/internal/models"
	"github.com/forumdeeptech/inscriptions/internal/notify"
	"github.com/forumdeeptech/inscriptions/pkg/response"
)

// Store persists inscriptions. *Repository is the production implementation.
type Store interface {
	Insert(ctx context.Context, ins *models.Inscription) error
	List(ctx context.Context) ([]models.Inscription, error)
}

// EmailLogRecorder records confirmation email attempts. Recording is
// best-effort like the emails themselves.
type EmailLogRecorder interface {
	Record(ctx context.Context, log *models.EmailLog) error
}

// CreateRequest is the body for POST /api/inscriptions. The form has
// already validated field content; the handler only requires the payload
// to be structurally well-formed JSON.
type CreateRequest struct {
	Nom       string   `json:"nom"`
	Prenom    string   `json:"prenom"`
	Email     string   `json:"email"`
	Telephone string   `json:"telephone"`
	Poste     string   `json:"poste"`
	Startup   string   `json:"startup"`
	Pays      string   `json:"pays"`
	Adresse   string   `json:"adresse"`
	Ateliers  []string `json:"ateliers"`
}

// Handler handles inscription HTTP endpoints.
type Handler struct {
	store     Store
	sender    notify.Sender
	emailLogs EmailLogRecorder
	logger    *zap.Logger
}

// NewHandler creates an inscriptions handler. emailLogs may be nil.
func NewHandler(store Store, sender notify.Sender, emailLogs EmailLogRecorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = notify.NewDisabled(logger)
	}
	return &Handler{store: store, sender: sender, emailLogs: emailLogs, logger: logger}
}

// Create handles POST /api/inscriptions: insert the row, then send the
// confirmation email. Storage failure fails the request; email failure is
// logged and swallowed, the row is the source of truth.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Internal(c, "Erreur serveur", err.Error())
		return
	}

	ins := &models.Inscription{
		LastName:  req.Nom,
		FirstName: req.Prenom,
		Email:     req.Email,
		Phone:     req.Telephone,
		Role:      req.Poste,
		Startup:   req.Startup,
		Country:   req.Pays,
		Address:   req.Adresse,
		Workshops: strings.Join(req.Ateliers, ", "),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Insert(c.Request.Context(), ins); err != nil {
		h.logger.Error("insert inscription failed", zap.Error(err), zap.String("email", ins.Email))
		response.Internal(c, "Erreur lors de la sauvegarde", err.Error())
		return
	}
	h.logger.Info("inscription created",
		zap.String("id", ins.ID.String()),
		zap.String("email", ins.Email),
		zap.String("ateliers", ins.Workshops),
	)

	h.sendConfirmation(c.Request.Context(), ins)

	response.OK(c, ins)
}

// List handles GET /api/inscriptions.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "Erreur lors de la lecture", err.Error())
		return
	}
	response.OK(c, list)
}

func (h *Handler) sendConfirmation(ctx context.Context, ins *models.Inscription) {
	conf := notify.Confirmation{
		To:        ins.Email,
		Name:      ins.DisplayName(),
		FirstName: ins.FirstName,
		LastName:  ins.LastName,
		Role:      ins.Role,
		Startup:   ins.Startup,
		Country:   ins.Country,
		Address:   ins.Address,
		Workshops: ins.Workshops,
	}

	log := &models.EmailLog{
		InscriptionID:  &ins.ID,
		RecipientEmail: ins.Email,
		Subject:        notify.Subject,
	}
	if err := h.sender.Send(ctx, conf); err != nil {
		h.logger.Warn("confirmation email failed", zap.Error(err), zap.String("email", ins.Email))
		log.Status = models.EmailLogStatusFailed
		log.ErrorMessage = err.Error()
	} else {
		now := time.Now().UTC()
		log.Status = models.EmailLogStatusSent
		log.SentAt = &now
	}
	if h.emailLogs != nil {
		if err := h.emailLogs.Record(ctx, log); err != nil {
			h.logger.Warn("record email log failed", zap.Error(err))
		}
	}
}
