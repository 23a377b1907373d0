package api

import (
	"context"
	"fmt"
	"math/big"

	"cryptolab/dh"
	"cryptolab/internal/audit"
	"cryptolab/internal/auth"
	myErrors "cryptolab/internal/errors"
	"cryptolab/internal/store"
	"cryptolab/internal/vault"
	"cryptolab/rsa"
	"cryptolab/symmetric"

	"github.com/google/uuid"
)

// Service orchestrates the store, vault, audit trail and token issuer
// into the operations internal/api's handlers expose, the role the
// teacher's Service{Auth, Chat} struct played over its repositories and
// NATS client.
type Service struct {
	store  *store.Store
	trail  *audit.KafkaTrail
	feed   *audit.LiveFeed
	issuer *auth.Issuer
}

func NewService(s *store.Store, trail *audit.KafkaTrail, feed *audit.LiveFeed, issuer *auth.Issuer) *Service {
	return &Service{store: s, trail: trail, feed: feed, issuer: issuer}
}

func (s *Service) record(ctx context.Context, event audit.OperationEvent) {
	if err := s.trail.Record(ctx, event); err != nil {
		_ = err // best-effort: a durability failure must not fail the caller's operation
	}
	if err := s.feed.Publish(event); err != nil {
		_ = err
	}
}

// Register creates an operator account, hashing passphrase the way the
// teacher's AuthService hashed chat login passwords.
func (s *Service) Register(ctx context.Context, username, passphrase string) (string, error) {
	if _, err := s.store.Operators.GetByUsername(ctx, username); err == nil {
		return "", myErrors.ErrOperatorExists
	}

	hash, err := vault.Hash(passphrase)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := s.store.Operators.Create(ctx, store.Operator{ID: id, Username: username, PassphraseHash: hash}); err != nil {
		return "", err
	}
	return id, nil
}

// Login verifies an operator's passphrase and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, passphrase string) (string, error) {
	op, err := s.store.Operators.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := vault.Verify(op.PassphraseHash, passphrase); err != nil {
		return "", err
	}
	return s.issuer.GenerateToken(op.ID)
}

// RSAKeyGenRequest parameterizes key generation the way spec.md's
// prime_test_kind/bit_length/min_probability triple does.
type RSAKeyGenRequest struct {
	Label          string
	TestKind       rsa.PrimeTestKind
	BitLength      int
	MinProbability float64
}

// GenerateRSAKey creates and persists a new RSA key pair, returning its
// id and public component.
func (s *Service) GenerateRSAKey(ctx context.Context, operatorID string, req RSAKeyGenRequest) (string, *rsa.PublicKey, error) {
	gen, err := rsa.NewKeyGenerator(req.TestKind, req.MinProbability, req.BitLength)
	if err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "rsa.keygen", Success: false, Error: err.Error()})
		return "", nil, err
	}
	pub, priv, err := gen.GenerateKeyPair()
	if err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "rsa.keygen", Success: false, Error: err.Error()})
		return "", nil, err
	}

	keyID := uuid.NewString()
	rec := store.RSAKeyRecord{
		ID:         keyID,
		OperatorID: operatorID,
		Label:      req.Label,
		NHex:       pub.N.Text(16),
		EHex:       pub.E.Text(16),
		DHex:       priv.D.Text(16),
		PHex:       priv.P.Text(16),
		QHex:       priv.Q.Text(16),
	}
	if err := s.store.RSAKeys.Create(ctx, rec); err != nil {
		return "", nil, err
	}

	s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "rsa.keygen", Success: true})
	return keyID, pub, nil
}

// ExportRSAKey returns a key's private components after verifying
// passphrase against the operator's vault-gated hash.
func (s *Service) ExportRSAKey(ctx context.Context, operatorID, keyID, passphrase string) (*rsa.PrivateKey, error) {
	op, err := s.store.Operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if err := vault.Verify(op.PassphraseHash, passphrase); err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "rsa.export", Success: false, Error: err.Error()})
		return nil, err
	}

	rec, err := s.store.RSAKeys.Get(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if rec.OperatorID != operatorID {
		return nil, myErrors.ErrUnauthorized
	}

	n, okN := new(big.Int).SetString(rec.NHex, 16)
	e, okE := new(big.Int).SetString(rec.EHex, 16)
	d, okD := new(big.Int).SetString(rec.DHex, 16)
	p, okP := new(big.Int).SetString(rec.PHex, 16)
	q, okQ := new(big.Int).SetString(rec.QHex, 16)
	if !okN || !okE || !okD || !okP || !okQ {
		return nil, fmt.Errorf("api: stored rsa key %s is corrupt", keyID)
	}

	s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "rsa.export", Success: true})
	return &rsa.PrivateKey{Public: &rsa.PublicKey{N: n, E: e}, D: d, P: p, Q: q}, nil
}

// StartDHExchange generates a safe prime (or accepts a caller-supplied
// one when primeHex/generatorHex are non-empty), draws a private key,
// and persists the session for a later CompleteDHExchange call.
func (s *Service) StartDHExchange(ctx context.Context, operatorID string, bits int, primeHex, generatorHex string) (string, *big.Int, error) {
	var exchange *dh.Exchange
	var err error

	if primeHex != "" && generatorHex != "" {
		p, ok := new(big.Int).SetString(primeHex, 16)
		if !ok {
			return "", nil, fmt.Errorf("api: invalid prime_hex")
		}
		g, ok := new(big.Int).SetString(generatorHex, 16)
		if !ok {
			return "", nil, fmt.Errorf("api: invalid generator_hex")
		}
		exchange, err = dh.New(p, g)
	} else {
		exchange, err = dh.NewWithSafePrime(bits)
	}
	if err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "dh.exchange", Success: false, Error: err.Error()})
		return "", nil, err
	}

	sessionID := uuid.NewString()
	rec := store.DHSessionRecord{
		ID:            sessionID,
		OperatorID:    operatorID,
		PrimeHex:      exchange.Prime().Text(16),
		GeneratorHex:  exchange.Generator().Text(16),
		PrivateKeyHex: exchange.PrivateKey().Text(16),
		PublicKeyHex:  exchange.PublicKey().Text(16),
	}
	if err := s.store.Sessions.Create(ctx, rec); err != nil {
		return "", nil, err
	}

	s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "dh.exchange", Success: true})
	return sessionID, exchange.PublicKey(), nil
}

// CompleteDHExchange reconstructs the session's Exchange from its stored
// parameters and private key, folds in the peer's public value, and
// persists the resulting shared secret.
func (s *Service) CompleteDHExchange(ctx context.Context, operatorID, sessionID, peerPublicHex string) (*big.Int, error) {
	rec, err := s.store.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.OperatorID != operatorID {
		return nil, myErrors.ErrUnauthorized
	}

	p, ok := new(big.Int).SetString(rec.PrimeHex, 16)
	if !ok {
		return nil, fmt.Errorf("api: stored dh session %s is corrupt", sessionID)
	}
	g, ok := new(big.Int).SetString(rec.GeneratorHex, 16)
	if !ok {
		return nil, fmt.Errorf("api: stored dh session %s is corrupt", sessionID)
	}
	privateKey, ok := new(big.Int).SetString(rec.PrivateKeyHex, 16)
	if !ok {
		return nil, fmt.Errorf("api: stored dh session %s is corrupt", sessionID)
	}
	peerPublic, ok := new(big.Int).SetString(peerPublicHex, 16)
	if !ok {
		return nil, fmt.Errorf("api: invalid peer_public_hex")
	}

	exchange, err := dh.New(p, g)
	if err != nil {
		return nil, err
	}
	if err := exchange.SetPrivateKey(privateKey); err != nil {
		return nil, err
	}

	shared, err := exchange.ComputeShared(peerPublic)
	if err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "dh.complete", Success: false, Error: err.Error()})
		return nil, err
	}

	if err := s.store.Sessions.CompleteWithPeerPublic(ctx, sessionID, peerPublicHex, shared.Text(16)); err != nil {
		return nil, err
	}

	s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: "dh.complete", Success: true})
	return shared, nil
}

// Encrypt runs plaintext through the cipher/mode/padding spec describes,
// recording an audit event around the operation either way.
func (s *Service) Encrypt(ctx context.Context, operatorID string, spec CipherSpec, plaintext []byte) ([]byte, error) {
	return s.runCipher(ctx, operatorID, "encrypt", spec, plaintext, func(cc *symmetric.Context) ([]byte, error) {
		return cc.Encrypt(plaintext)
	})
}

// Decrypt is Encrypt's inverse.
func (s *Service) Decrypt(ctx context.Context, operatorID string, spec CipherSpec, ciphertext []byte) ([]byte, error) {
	return s.runCipher(ctx, operatorID, "decrypt", spec, ciphertext, func(cc *symmetric.Context) ([]byte, error) {
		return cc.Decrypt(ciphertext)
	})
}

func (s *Service) runCipher(ctx context.Context, operatorID, operation string, spec CipherSpec, input []byte, run func(*symmetric.Context) ([]byte, error)) ([]byte, error) {
	cc, err := buildContext(spec)
	if err != nil {
		s.record(ctx, audit.OperationEvent{CorrelationID: uuid.NewString(), OperatorID: operatorID, Operation: operation, Algorithm: spec.Algorithm, Mode: spec.Mode, Padding: spec.Padding, Success: false, Error: err.Error()})
		return nil, err
	}
	defer cc.Dispose()

	out, err := run(cc)
	event := audit.OperationEvent{
		CorrelationID: uuid.NewString(),
		OperatorID:    operatorID,
		Operation:     operation,
		Algorithm:     spec.Algorithm,
		Mode:          spec.Mode,
		Padding:       spec.Padding,
		BytesIn:       len(input),
		Success:       err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	} else {
		event.BytesOut = len(out)
	}
	s.record(ctx, event)
	return out, err
}
