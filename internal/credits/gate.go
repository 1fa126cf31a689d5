// Package credits debits and refunds generation credits. It is consulted by
// the API before a generation is started; the pipeline never sees it.
package credits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/sqlinline"
)

// Gate reserves credits for a generation keyed by an idempotency key.
type Gate interface {
	Reserve(ctx context.Context, userID, idempotencyKey string, amount int) (remaining int, err error)
	Refund(ctx context.Context, userID, idempotencyKey string, amount int) error
}

// SQLGate keeps balances in credit_accounts and an append-only credit_ledger.
type SQLGate struct {
	sql infra.SQLExecutor
}

func NewSQLGate(sql infra.SQLExecutor) *SQLGate {
	return &SQLGate{sql: sql}
}

// Reserve debits amount. A key that was already used returns
// ErrDuplicateOperation; an insufficient balance returns ErrQuotaExceeded.
func (g *SQLGate) Reserve(ctx context.Context, userID, idempotencyKey string, amount int) (int, error) {
	if err := checkArgs(userID, idempotencyKey, amount); err != nil {
		return 0, err
	}
	row := g.sql.QueryRow(ctx, sqlinline.QReserveCredits, userID, idempotencyKey, amount)
	var replayed bool
	var remaining int
	if err := row.Scan(&replayed, &remaining); err != nil {
		return 0, fmt.Errorf("reserve credits: %w", err)
	}
	if replayed {
		return 0, domain.ErrDuplicateOperation
	}
	if remaining < 0 {
		return 0, domain.ErrQuotaExceeded
	}
	return remaining, nil
}

// Refund returns amount to the user once per idempotency key.
func (g *SQLGate) Refund(ctx context.Context, userID, idempotencyKey string, amount int) error {
	if err := checkArgs(userID, idempotencyKey, amount); err != nil {
		return err
	}
	if _, err := g.sql.Exec(ctx, sqlinline.QRefundCredits, userID, idempotencyKey, amount); err != nil {
		return fmt.Errorf("refund credits: %w", err)
	}
	return nil
}

// Balance returns the current balance; users without an account have zero.
func (g *SQLGate) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	if err := g.sql.QueryRow(ctx, sqlinline.QSelectCreditBalance, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("load balance: %w", err)
	}
	return balance, nil
}

// Grant adds amount to the user's balance, opening the account if needed.
func (g *SQLGate) Grant(ctx context.Context, userID string, amount int) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, errors.New("credits: user id is required")
	}
	if amount <= 0 {
		return 0, errors.New("credits: amount must be positive")
	}
	var balance int
	if err := g.sql.QueryRow(ctx, sqlinline.QGrantCredits, userID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("grant credits: %w", err)
	}
	return balance, nil
}

func checkArgs(userID, key string, amount int) error {
	switch {
	case strings.TrimSpace(userID) == "":
		return errors.New("credits: user id is required")
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("%w: idempotency key is required", domain.ErrValidation)
	case amount <= 0:
		return errors.New("credits: amount must be positive")
	}
	return nil
}

var _ Gate = (*SQLGate)(nil)
