package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"uniride/entity"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepo {
	return UserRepo{
		db: db,
	}
}

func (r UserRepo) Add(ctx context.Context, user entity.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users
		(user_id, email, password_hash, full_name, phone, university, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		user.UserID, user.Email, user.PasswordHash, user.FullName,
		user.Phone, user.University, user.Role, user.CreatedAt)
	return err
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT user_id, email, password_hash,
		full_name, phone, university, role, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r UserRepo) Get(ctx context.Context, userID string) (entity.User, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT user_id, email, password_hash,
		full_name, phone, university, role, created_at
		FROM users WHERE user_id = $1`, userID)
	return scanUser(row)
}

func scanUser(row *sqlx.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Phone, &u.University, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("scanning user: %w", err)
	}

	return u, nil
}
