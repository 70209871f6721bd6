package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/utils"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// Create hashes password and inserts an admin, returning its ID.  A
// taken username yields ErrConflict.
func (r *AdminRepo) Create(ctx context.Context, username, password string, cost int) (uint64, error) {
	username = normalizeUsername(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an admin by normalized username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM admins WHERE username=? LIMIT 1",
		normalizeUsername(username)).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func normalizeUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
