package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, last_login, created_at, updated_at`

type UserRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt

	query := r.DB.Rebind(`
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.DB.QueryRowxContext(ctx, query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	return classify(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	query := r.DB.Rebind(`SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER(?)`)
	if err := r.DB.GetContext(ctx, &u, query, email); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var u entity.User
	query := r.DB.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &u, query, id); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.DB.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := r.DB.Rebind(`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, at, at, id))
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool, at time.Time) error {
	query := r.DB.Rebind(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, active, at, id))
}
