package store

import (
	"context"
	"errors"
	"fmt"

	myErrors "cryptolab/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RSAKeyRecord persists one RSA key pair in hex-encoded big.Int form,
// the way domain.PublicKey persisted a client's public key hex; here the
// registry additionally custodies the private components behind
// internal/vault's passphrase gate.
type RSAKeyRecord struct {
	ID         string
	OperatorID string
	Label      string
	NHex       string
	EHex       string
	DHex       string
	PHex       string
	QHex       string
}

type RSAKeyRepository struct {
	pool *pgxpool.Pool
}

func (r *RSAKeyRepository) Create(ctx context.Context, rec RSAKeyRecord) error {
	const query = `
		INSERT INTO rsa_keys (key_id, operator_id, label, n_hex, e_hex, d_hex, p_hex, q_hex)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, rec.ID, rec.OperatorID, rec.Label, rec.NHex, rec.EHex, rec.DHex, rec.PHex, rec.QHex)
	if err != nil {
		return fmt.Errorf("store: inserting rsa key: %w", err)
	}
	return nil
}

func (r *RSAKeyRepository) Get(ctx context.Context, keyID string) (RSAKeyRecord, error) {
	const query = `SELECT key_id, operator_id, label, n_hex, e_hex, d_hex, p_hex, q_hex FROM rsa_keys WHERE key_id = $1`
	var rec RSAKeyRecord
	err := r.pool.QueryRow(ctx, query, keyID).Scan(
		&rec.ID, &rec.OperatorID, &rec.Label, &rec.NHex, &rec.EHex, &rec.DHex, &rec.PHex, &rec.QHex,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return RSAKeyRecord{}, myErrors.ErrKeyNotFound
	}
	if err != nil {
		return RSAKeyRecord{}, fmt.Errorf("store: getting rsa key: %w", err)
	}
	return rec, nil
}

func (r *RSAKeyRepository) ListByOperator(ctx context.Context, operatorID string) ([]RSAKeyRecord, error) {
	const query = `SELECT key_id, operator_id, label, n_hex, e_hex, d_hex, p_hex, q_hex FROM rsa_keys WHERE operator_id = $1`
	rows, err := r.pool.Query(ctx, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("store: listing rsa keys: %w", err)
	}
	defer rows.Close()

	var out []RSAKeyRecord
	for rows.Next() {
		var rec RSAKeyRecord
		if err := rows.Scan(&rec.ID, &rec.OperatorID, &rec.Label, &rec.NHex, &rec.EHex, &rec.DHex, &rec.PHex, &rec.QHex); err != nil {
			return nil, fmt.Errorf("store: scanning rsa key: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
