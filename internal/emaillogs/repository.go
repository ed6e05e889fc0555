package emaillogs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumdeeptech/inscriptions/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one email attempt.
func (r *Repository) Record(ctx context.Context, log *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, inscription_id, recipient_email, subject, status, sent_at, error_message)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	var errMsg *string
	if log.ErrorMessage != "" {
		errMsg = &log.ErrorMessage
	}
	return r.pool.QueryRow(ctx, q,
		log.InscriptionID, log.RecipientEmail, log.Subject, log.Status, log.SentAt, errMsg,
	).Scan(&log.ID, &log.CreatedAt)
}

// List returns email logs, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.EmailLog, error) {
	const q = `SELECT id, inscription_id, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		var subject, errMsg *string
		if err := rows.Scan(&el.ID, &el.InscriptionID, &el.RecipientEmail, &subject, &el.Status, &el.SentAt, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			el.Subject = *subject
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
