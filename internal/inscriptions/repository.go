package inscriptions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumdeeptech/inscriptions/internal/models"
)

// Repository handles inscription persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an inscriptions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists an inscription and reads back the generated id.
// CreatedAt is already stamped by the caller and stored as-is.
func (r *Repository) Insert(ctx context.Context, ins *models.Inscription) error {
	const q = `INSERT INTO inscriptions (id, nom, prenom, email, telephone, poste, startup, pays, adresse, ateliers, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	return r.pool.QueryRow(ctx, q,
		ins.LastName, ins.FirstName, ins.Email, ins.Phone,
		ins.Role, ins.Startup, ins.Country, ins.Address,
		ins.Workshops, ins.CreatedAt,
	).Scan(&ins.ID)
}

// List returns all inscriptions, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Inscription, error) {
	const q = `SELECT id, nom, prenom, email, telephone, poste, startup, pays, adresse, ateliers, created_at
		FROM inscriptions ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Inscription
	for rows.Next() {
		var ins models.Inscription
		if err := rows.Scan(&ins.ID, &ins.LastName, &ins.FirstName, &ins.Email, &ins.Phone,
			&ins.Role, &ins.Startup, &ins.Country, &ins.Address, &ins.Workshops, &ins.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, ins)
	}
	return list, rows.Err()
}
