// Package storage persists users and expenses in SQLite. Expense lookups are
// owner-scoped at the SQL level: a single `id = ? AND owner_id = ?` predicate
// makes a foreign record indistinguishable from a missing one.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	version, err := migrateSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	slog.Info("database ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert implements ledger.Store. The store assigns the id and both
// timestamps.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (owner_id, title, amount_cents, category, description, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.OwnerID, e.Title, e.Amount.Cents, string(e.Category), nullableText(e.Description), e.Date.String(), now, now)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("read inserted id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", e.ID,
		"owner_id", e.OwnerID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return e, nil
}

const expenseColumns = `id, owner_id, title, amount_cents, category, description, date, created_at, updated_at`

// FindByOwner implements ledger.Store. Rows come back in insertion order;
// ordering for display is the query pipeline's job.
func (r *SQLiteRepository) FindByOwner(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses by owner: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// FindOneByIDAndOwner implements ledger.Store.
func (r *SQLiteRepository) FindOneByIDAndOwner(ctx context.Context, id, ownerID int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, core.ErrNotFound
		}
		return core.Expense{}, err
	}
	return e, nil
}

// Replace implements ledger.Store: a full-field replace of the mutable
// columns. The owner column is part of the predicate, never of the SET list.
func (r *SQLiteRepository) Replace(ctx context.Context, id, ownerID int64, in core.ExpenseInput) (core.Expense, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, amount_cents = ?, category = ?, description = ?, date = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		in.Title, in.Amount.Cents, string(in.Category), nullableText(in.Description), in.Date.String(), now,
		id, ownerID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return core.Expense{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense updated",
		"expense_id", id,
		"owner_id", ownerID,
		"amount_cents", in.Amount.Cents)

	return r.FindOneByIDAndOwner(ctx, id, ownerID)
}

// Remove implements ledger.Store. Returns false when nothing matched, which
// the ledger maps to its not-found error.
func (r *SQLiteRepository) Remove(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "owner_id", ownerID)
	return true, nil
}

// CreateUser implements auth.UserStore. Emails are unique; a constraint
// violation surfaces as auth.ErrEmailTaken to cover the race past the
// service's pre-check.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, fullName string, passwordHash []byte) (auth.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, full_name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		email, fullName, passwordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return auth.User{}, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id)

	return auth.User{ID: id, Email: email, FullName: fullName, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// UserByEmail implements auth.UserStore.
func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, created_at FROM users WHERE email = ?`, email)

	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("query user by email: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e           core.Expense
		category    string
		description sql.NullString
		date        string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Amount.Cents, &category, &description, &date, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = core.Category(category)
	e.Description = description.String

	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	e.Date = parsed

	return e, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "unique constraint")
}
