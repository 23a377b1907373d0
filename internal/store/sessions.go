package store

import (
	"context"
	"errors"
	"fmt"

	myErrors "cryptolab/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DHSessionRecord persists one Diffie-Hellman exchange's parameters,
// replacing the fields the teacher's domain.RoomConfig carried for a
// symmetric session (Algorithm/Mode/Padding/Iv already belong to a
// symmetric.Context configuration, negotiated once a shared secret
// exists here).
type DHSessionRecord struct {
	ID              string
	OperatorID      string
	PrimeHex        string
	GeneratorHex    string
	PrivateKeyHex   string
	PublicKeyHex    string
	PeerPublicHex   string
	SharedSecretHex string
}

type DHSessionRepository struct {
	pool *pgxpool.Pool
}

func (r *DHSessionRepository) Create(ctx context.Context, rec DHSessionRecord) error {
	const query = `
		INSERT INTO dh_sessions (session_id, operator_id, prime_hex, generator_hex, private_key_hex, public_key_hex)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, rec.ID, rec.OperatorID, rec.PrimeHex, rec.GeneratorHex, rec.PrivateKeyHex, rec.PublicKeyHex)
	if err != nil {
		return fmt.Errorf("store: inserting dh session: %w", err)
	}
	return nil
}

func (r *DHSessionRepository) Get(ctx context.Context, sessionID string) (DHSessionRecord, error) {
	const query = `
		SELECT session_id, operator_id, prime_hex, generator_hex, private_key_hex, public_key_hex,
		       coalesce(peer_public_hex, ''), coalesce(shared_secret_hex, '')
		FROM dh_sessions WHERE session_id = $1`
	var rec DHSessionRecord
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&rec.ID, &rec.OperatorID, &rec.PrimeHex, &rec.GeneratorHex, &rec.PrivateKeyHex, &rec.PublicKeyHex,
		&rec.PeerPublicHex, &rec.SharedSecretHex,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return DHSessionRecord{}, myErrors.ErrSessionNotFound
	}
	if err != nil {
		return DHSessionRecord{}, fmt.Errorf("store: getting dh session: %w", err)
	}
	return rec, nil
}

// CompleteWithPeerPublic stores the peer's public value and the resulting
// shared secret once both sides of the exchange are known.
func (r *DHSessionRepository) CompleteWithPeerPublic(ctx context.Context, sessionID, peerPublicHex, sharedSecretHex string) error {
	const query = `UPDATE dh_sessions SET peer_public_hex = $2, shared_secret_hex = $3 WHERE session_id = $1`
	tag, err := r.pool.Exec(ctx, query, sessionID, peerPublicHex, sharedSecretHex)
	if err != nil {
		return fmt.Errorf("store: completing dh session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return myErrors.ErrSessionNotFound
	}
	return nil
}
