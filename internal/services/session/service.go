// Package session runs the two X3DH handshake roles and persists sessions.
package session

import (
	"context"
	"fmt"
	"time"

	"sigil/internal/domain"
	"sigil/internal/protocol/x3dh"
)

// Service performs X3DH initiation and response and persists the resulting
// sessions. Once a session exists for a peer it is reused for every message
// in both directions; there is no rotation.
type Service struct {
	identityStore domain.IdentityStore
	prekeyStore   domain.PreKeyStore
	sessionStore  domain.SessionStore
	relayClient   domain.RelayClient
}

// New constructs a session service with the given stores and relay client.
func New(
	identityStore domain.IdentityStore,
	prekeyStore domain.PreKeyStore,
	sessionStore domain.SessionStore,
	relayClient domain.RelayClient,
) *Service {
	return &Service{
		identityStore: identityStore,
		prekeyStore:   prekeyStore,
		sessionStore:  sessionStore,
		relayClient:   relayClient,
	}
}

// InitiateSession runs the initiator side of X3DH against peer.
//
// Steps:
//  1. Load our identity from secure storage (fails closed if uninitialized).
//  2. Fetch the peer's pre-key bundle from the relay.
//  3. Run X3DH as initiator: bundle verification, ephemeral generation, the
//     four DH terms, key derivation, and sealing of initialPlaintext.
//  4. Persist the session and return the handshake envelope ready to send.
func (s *Service) InitiateSession(
	ctx context.Context,
	passphrase string,
	from domain.Username,
	peer domain.Username,
	initialPlaintext []byte,
) (domain.Session, domain.Envelope, error) {
	id, err := s.identityStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.Session{}, domain.Envelope{}, err
	}

	bundle, err := s.relayClient.FetchPreKeyBundle(ctx, peer)
	if err != nil {
		return domain.Session{}, domain.Envelope{}, err
	}

	sess, msg, nonce, cipher, err := x3dh.Initiate(nil, id, bundle, initialPlaintext)
	if err != nil {
		return domain.Session{}, domain.Envelope{}, fmt.Errorf("initiating with %q: %w", peer, err)
	}

	if err := s.sessionStore.SaveSession(peer, sess); err != nil {
		return domain.Session{}, domain.Envelope{}, err
	}

	env := domain.Envelope{
		From:      from,
		To:        peer,
		Nonce:     nonce,
		Cipher:    cipher,
		Handshake: &msg,
		Timestamp: time.Now().Unix(),
	}
	return sess, env, nil
}

// RespondSession consumes a received handshake envelope.
//
// The signed pre-key private half is looked up by the id the initiator
// targeted; the one-time pre-key, if one was used, is consumed from the
// store atomically so a replayed or second handshake against the same id
// fails with domain.ErrUnknownPreKey instead of silently deriving a
// colliding key.
func (s *Service) RespondSession(
	passphrase string,
	envelope domain.Envelope,
) (domain.Session, []byte, error) {
	if envelope.Handshake == nil {
		return domain.Session{}, nil, fmt.Errorf("envelope from %q carries no handshake", envelope.From)
	}
	msg := *envelope.Handshake

	id, err := s.identityStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.Session{}, nil, err
	}

	spkPriv, _, _, ok, err := s.prekeyStore.LoadSignedPreKey(msg.SignedPreKeyID)
	if err != nil {
		return domain.Session{}, nil, err
	}
	if !ok {
		return domain.Session{}, nil, fmt.Errorf("%w: signed pre-key %q", domain.ErrUnknownPreKey, msg.SignedPreKeyID)
	}

	var opkPriv *domain.X25519Private
	if msg.OneTimePreKeyID != "" {
		priv, ok, err := s.prekeyStore.ConsumeOneTimePreKey(msg.OneTimePreKeyID)
		if err != nil {
			return domain.Session{}, nil, err
		}
		if !ok {
			return domain.Session{}, nil, fmt.Errorf("%w: one-time pre-key %q", domain.ErrUnknownPreKey, msg.OneTimePreKeyID)
		}
		opkPriv = &priv
	}

	sess, plain, err := x3dh.Respond(id, spkPriv, opkPriv, envelope.From, msg, envelope.Nonce, envelope.Cipher)
	if err != nil {
		return domain.Session{}, nil, err
	}
	if err := s.sessionStore.SaveSession(envelope.From, sess); err != nil {
		return domain.Session{}, nil, err
	}
	return sess, plain, nil
}

// GetSession retrieves a stored session for the given peer.
func (s *Service) GetSession(peer domain.Username) (domain.Session, bool, error) {
	return s.sessionStore.LoadSession(peer)
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
