package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitfinder-backend/internal/domain/user"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"github.com/doug-martin/goqu/v9"
)

var userColumns = []interface{}{"id", "username", "email", "password", "age", "gender", "role", "created_at"}

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query, args, err := dialect.Insert("users").Prepared(true).
		Rows(goqu.Record{
			"username": u.Username,
			"email":    u.Email,
			"password": u.PasswordHash,
			"age":      u.Age,
			"gender":   string(u.Gender),
			"role":     string(u.Role),
		}).
		Returning("id", "created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fitfinder_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getOne(ctx, goqu.Ex{"username": username})
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, goqu.Ex{"email": email})
}

func (r *PostgresUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query, args, err := dialect.From("users").Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.Or(
			goqu.Ex{"username": username},
			goqu.Ex{"email": email},
		)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build user exists query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where goqu.Ex) (user.User, error) {
	query, args, err := dialect.From("users").Prepared(true).
		Select(userColumns...).
		Where(where).
		ToSQL()
	if err != nil {
		return user.User{}, fmt.Errorf("build user query: %w", err)
	}

	var (
		u      user.User
		gender string
		role   string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Age,
		&gender,
		&role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, fitfinder_errors.ErrUserNotFound
		}
		return user.User{}, err
	}

	u.Gender = user.Gender(gender)
	u.Role = user.Role(role)
	return u, nil
}
