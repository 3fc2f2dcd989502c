// Package ledger enforces ownership and validation over the expense store.
// Every operation takes an explicit Principal; there is no ambient session
// state anywhere below this point.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
)

// Store is the persistence port consumed by the service. Implementations are
// owner-scoped: lookups by id match only records carrying that owner, so a
// foreign id behaves exactly like a missing one.
type Store interface {
	Insert(ctx context.Context, e core.Expense) (core.Expense, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]core.Expense, error)
	FindOneByIDAndOwner(ctx context.Context, id, ownerID int64) (core.Expense, error)
	Replace(ctx context.Context, id, ownerID int64, in core.ExpenseInput) (core.Expense, error)
	Remove(ctx context.Context, id, ownerID int64) (bool, error)
}

// EventPublisher receives a notification after each successful mutation.
// Publishing is best effort: failures are logged, never surfaced.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	PublishExpenseUpdated(ctx context.Context, e core.Expense) error
	PublishExpenseDeleted(ctx context.Context, id, ownerID int64) error
}

type Service struct {
	store  Store
	events EventPublisher // may be nil
}

func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// Create validates the input and persists a new expense owned by the
// principal. The owner always comes from the principal, never the caller.
func (s *Service) Create(ctx context.Context, principal *core.Principal, in core.ExpenseInput) (core.Expense, error) {
	if principal == nil {
		return core.Expense{}, core.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.store.Insert(ctx, core.Expense{
		OwnerID:     principal.ID,
		Title:       in.Title,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, created); err != nil {
			slog.WarnContext(ctx, "Failed to publish expense created event",
				"expense_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// List returns the principal's snapshot. Ordering is the store's insertion
// order; callers wanting a specific order run the query pipeline on top.
func (s *Service) List(ctx context.Context, principal *core.Principal) ([]core.Expense, error) {
	if principal == nil {
		return nil, core.ErrUnauthenticated
	}
	expenses, err := s.store.FindByOwner(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Update replaces the mutable fields of an owned expense. A record that does
// not exist and a record owned by someone else both fail with ErrNotFound.
func (s *Service) Update(ctx context.Context, principal *core.Principal, id int64, in core.ExpenseInput) (core.Expense, error) {
	if principal == nil {
		return core.Expense{}, core.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.store.Replace(ctx, id, principal.ID, in)
	if errors.Is(err, core.ErrNotFound) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("replace expense: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishExpenseUpdated(ctx, updated); err != nil {
			slog.WarnContext(ctx, "Failed to publish expense updated event",
				"expense_id", updated.ID, "error", err)
		}
	}

	return updated, nil
}

// Delete permanently removes an owned expense under the same ownership rule
// as Update. There is no soft delete.
func (s *Service) Delete(ctx context.Context, principal *core.Principal, id int64) error {
	if principal == nil {
		return core.ErrUnauthenticated
	}

	removed, err := s.store.Remove(ctx, id, principal.ID)
	if err != nil {
		return fmt.Errorf("remove expense: %w", err)
	}
	if !removed {
		return core.ErrNotFound
	}

	if s.events != nil {
		if err := s.events.PublishExpenseDeleted(ctx, id, principal.ID); err != nil {
			slog.WarnContext(ctx, "Failed to publish expense deleted event",
				"expense_id", id, "error", err)
		}
	}

	return nil
}
