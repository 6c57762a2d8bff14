package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storeops/replenish-backend/internal/domain"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByLogin resolves a login handle to the full user row, including the
// durable numeric uid the reconcile path stamps onto unmatched rows.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		"SELECT uid, id, pw, name, location, privilege, joined_at FROM user WHERE id = ?", login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", login, err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user (id, pw, name, location, privilege, joined_at) VALUES (?, ?, ?, ?, ?, NOW())",
		user.ID, user.PW, user.Name, user.Location, user.Privilege,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.ID, err)
	}
	return nil
}
