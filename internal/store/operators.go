package store

import (
	"context"
	"errors"
	"fmt"

	myErrors "cryptolab/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator is an account gating key custody: username/passphrase-hash
// login plays the role the teacher's domain.User played for chat login.
type Operator struct {
	ID             string
	Username       string
	PassphraseHash string
}

type OperatorRepository struct {
	pool *pgxpool.Pool
}

func (r *OperatorRepository) Create(ctx context.Context, op Operator) error {
	const query = `INSERT INTO operators (operator_id, username, passphrase_hash) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, op.ID, op.Username, op.PassphraseHash); err != nil {
		return fmt.Errorf("store: inserting operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (Operator, error) {
	const query = `SELECT operator_id, username, passphrase_hash FROM operators WHERE username = $1`
	var op Operator
	err := r.pool.QueryRow(ctx, query, username).Scan(&op.ID, &op.Username, &op.PassphraseHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Operator{}, myErrors.ErrOperatorNotFound
	}
	if err != nil {
		return Operator{}, fmt.Errorf("store: getting operator by username: %w", err)
	}
	return op, nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id string) (Operator, error) {
	const query = `SELECT operator_id, username, passphrase_hash FROM operators WHERE operator_id = $1`
	var op Operator
	err := r.pool.QueryRow(ctx, query, id).Scan(&op.ID, &op.Username, &op.PassphraseHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Operator{}, myErrors.ErrOperatorNotFound
	}
	if err != nil {
		return Operator{}, fmt.Errorf("store: getting operator by id: %w", err)
	}
	return op, nil
}
