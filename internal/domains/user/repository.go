package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/pkg/database"
)

// SortFields is the allow-list for the admin user listing.
var SortFields = []string{"createdAt", "email", "fullName", "role"}

// sortColumns maps API sort fields to table columns. Only allow-listed
// fields ever reach this map.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"fullName":  "full_name",
	"role":      "role",
}

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, u *User) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, opts *query.Options) ([]*User, int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error

	// ChangePassword locks the row, hands the stored hash to verify, and
	// writes the hash verify returns. Runs in one transaction so a
	// concurrent change cannot slip between the check and the write.
	ChangePassword(ctx context.Context, id uuid.UUID, verify func(currentHash string) (newHash string, err error)) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *User) (uuid.UUID, error) {
	sql := `
		INSERT INTO users (email, password_hash, full_name, phone, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now().UTC()
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, sql,
		u.Email, u.Password, u.FullName, u.Phone, u.Role, u.IsActive, now, now,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, apperror.Conflict("email already registered")
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

const userColumns = `
	id, email, password_hash, full_name, phone, role, is_active,
	last_login_at, created_at, updated_at
`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FullName, &u.Phone, &u.Role,
		&u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, sql, id))
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, sql, email))
}

// List applies role/isActive equality filters from the descriptor plus
// pagination and allow-listed sorting.
func (r *postgresRepository) List(ctx context.Context, opts *query.Options) ([]*User, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if role, ok := opts.Filters["role"]; ok {
		args = append(args, role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if active, ok := opts.Filters["isActive"]; ok {
		args = append(args, active == "true")
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if search, ok := opts.Filters["search"]; ok {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM users WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy := "created_at DESC"
	if len(opts.Order) > 0 {
		clauses := make([]string, 0, len(opts.Order))
		for _, token := range opts.Order {
			field, dir := query.SplitToken(token)
			col, ok := sortColumns[field]
			if !ok {
				continue
			}
			direction := "ASC"
			if dir == query.DirDesc {
				direction = "DESC"
			}
			clauses = append(clauses, col+" "+direction)
		}
		if len(clauses) > 0 {
			orderBy = strings.Join(clauses, ", ")
		}
	}

	args = append(args, opts.Limit(), opts.Skip())
	listSQL := fmt.Sprintf(
		`SELECT %s FROM users WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, orderBy, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error {
	sql := `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, sql, id, fullName, phone, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

func (r *postgresRepository) ChangePassword(ctx context.Context, id uuid.UUID, verify func(string) (string, error)) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var currentHash string
		err := tx.QueryRow(ctx,
			`SELECT password_hash FROM users WHERE id = $1 FOR UPDATE`, id,
		).Scan(&currentHash)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NotFound("user")
			}
			return fmt.Errorf("failed to load password hash: %w", err)
		}

		newHash, err := verify(currentHash)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
			id, newHash, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.exec(ctx, `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`,
		id, role, time.Now().UTC())
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	return r.exec(ctx, `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, isActive, time.Now().UTC())
}

func (r *postgresRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
}

func (r *postgresRepository) exec(ctx context.Context, sql string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user")
	}
	return nil
}
