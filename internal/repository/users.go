package repository

import (
	"context"
	"database/sql"

	"sawari/internal/database"
	apperrors "sawari/internal/errors"
	"sawari/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, salt, is_admin, wallet, created_at
		FROM users
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.IsAdmin,
		&user.Wallet,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, salt, is_admin, wallet, created_at
		FROM users
		WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.IsAdmin,
		&user.Wallet,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

// GetWallet returns the current balance for a user.
func (r *UserRepository) GetWallet(ctx context.Context, userID int64) (int64, error) {
	var wallet int64
	err := r.db.QueryRowContext(ctx,
		`SELECT wallet FROM users WHERE id = $1`, userID).Scan(&wallet)
	if err == sql.ErrNoRows {
		return 0, apperrors.ErrUserNotFound
	}
	return wallet, err
}

// AddFunds credits a user's wallet and returns the new balance. Amount
// validation happens at the service layer.
func (r *UserRepository) AddFunds(ctx context.Context, userID int64, amount int64) (int64, error) {
	var wallet int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET wallet = wallet + $1 WHERE id = $2 RETURNING wallet`,
		amount, userID).Scan(&wallet)
	if err == sql.ErrNoRows {
		return 0, apperrors.ErrUserNotFound
	}
	return wallet, err
}

// List returns all users without credential material, for the admin view.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, is_admin, wallet, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.IsAdmin,
			&user.Wallet,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
