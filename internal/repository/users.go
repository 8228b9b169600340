package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartenergy/metering/internal/auth"
	"github.com/smartenergy/metering/internal/domain"
)

func (r *Repos) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := r.db.SelectContext(ctx, &out,
		`SELECT user_id, email, password, access_level FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *Repos) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT user_id, email, password, access_level FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "user", Key: email}
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", email, err)
	}
	return &u, nil
}

// CreateUser stores the user with a bcrypt-hashed password. An admin is
// additionally assigned to every facility existing at creation time; the
// insert and all assignments run in one transaction so a partial cascade
// rolls back the user row as well.
func (r *Repos) CreateUser(ctx context.Context, email, password string, accessLevel int) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID int64
	err = tx.GetContext(ctx, &userID,
		`INSERT INTO users (email, password, access_level) VALUES ($1, $2, $3) RETURNING user_id`,
		email, hash, accessLevel)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", email, err)
	}

	if accessLevel == domain.AccessLevelAdmin {
		var facilityIDs []int64
		if err := tx.SelectContext(ctx, &facilityIDs, `SELECT facility_id FROM facilities`); err != nil {
			return fmt.Errorf("list facilities for admin cascade: %w", err)
		}
		for _, fid := range facilityIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO assignments (user_id, facility_id) VALUES ($1, $2)`, userID, fid)
			if err != nil {
				return fmt.Errorf("assign admin %q to facility %d: %w", email, fid, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// UpdateUser rehashes and replaces the password and access level. The email
// is the lookup key and is never modified.
func (r *Repos) UpdateUser(ctx context.Context, email, password string, accessLevel int) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1, access_level = $2 WHERE email = $3`,
		hash, accessLevel, email)
	if err != nil {
		return fmt.Errorf("update user %q: %w", email, err)
	}
	return rowsOrNotFound(res, "user", email)
}

// BlockUser sets access_level to blocked. Calling it on an already blocked
// user succeeds again with the same result.
func (r *Repos) BlockUser(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_level = $1 WHERE email = $2`, domain.AccessLevelBlocked, email)
	if err != nil {
		return fmt.Errorf("block user %q: %w", email, err)
	}
	return rowsOrNotFound(res, "user", email)
}

// DeleteUser removes the user and their assignments. Readings reported by
// the user are kept as history and block the delete.
func (r *Repos) DeleteUser(ctx context.Context, email string) error {
	id, err := r.ResolveUserID(ctx, email)
	if err != nil {
		return err
	}

	var readings int64
	if err := r.db.GetContext(ctx, &readings,
		`SELECT COUNT(*) FROM readings WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("count readings for user %q: %w", email, err)
	}
	if readings > 0 {
		return &domain.ConflictError{Entity: "user", Key: email, Reason: "readings reference this user"}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete assignments for user %q: %w", email, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user %q: %w", email, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

// Login verifies the credentials. A missing user and a wrong password both
// come back as ErrNotAuthenticated so callers cannot enumerate accounts. The
// returned record carries an empty password field.
func (r *Repos) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := r.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, u.Password) {
		return nil, domain.ErrNotAuthenticated
	}
	u.Password = ""
	return u, nil
}

func rowsOrNotFound(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, Key: key}
	}
	return nil
}
