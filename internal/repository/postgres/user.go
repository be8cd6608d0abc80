package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"object-gateway/internal/domain/user"
	apperrors "object-gateway/pkg/errors"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT subject_id, email, active, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND active = true
	`

	u := &user.User{}
	err := r.db.Pool.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&u.SubjectID,
		&u.Email,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}
