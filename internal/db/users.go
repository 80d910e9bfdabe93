package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/movietrack/backend/internal/model"
)

const userColumns = `id, name, email, password_hash, password_reset_token_hash, password_reset_expires, created_at, updated_at`

func (db *Postgres) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordResetTokenHash,
		&user.PasswordResetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns
	return db.scanUser(db.Pool.QueryRow(ctx, query, name, email, passwordHash))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return db.scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return db.scanUser(db.Pool.QueryRow(ctx, query, userID))
}

// GetUserByValidResetHash matches an outstanding reset request: the stored
// hash must equal and the expiry must still be in the future. Wrong secret and
// expired secret both come back as no rows.
func (db *Postgres) GetUserByValidResetHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE password_reset_token_hash = $1 AND password_reset_expires > $2`
	return db.scanUser(db.Pool.QueryRow(ctx, query, tokenHash, now))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	query := `SELECT id, name, email, created_at FROM users ORDER BY id`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.UserProfile
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}

	if list == nil {
		list = []model.UserProfile{}
	}
	return list, rows.Err()
}

func (db *Postgres) UpdateUser(ctx context.Context, userID int64, name, email string) (*model.UserProfile, error) {
	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, created_at`

	var u model.UserProfile
	err := db.Pool.QueryRow(ctx, query, userID, name, email).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *Postgres) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token_hash = $2,
		    password_reset_expires = $3,
		    updated_at = NOW()
		WHERE id = $1`
	_, err := db.Pool.Exec(ctx, query, userID, tokenHash, expiresAt)
	return err
}

// UpdatePasswordAndClearReset replaces the password hash and nulls both reset
// columns in a single statement so they can never diverge.
func (db *Postgres) UpdatePasswordAndClearReset(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    password_reset_token_hash = NULL,
		    password_reset_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1`
	_, err := db.Pool.Exec(ctx, query, userID, passwordHash)
	return err
}

func (db *Postgres) DeleteUser(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}
