// Package message sends and receives sealed messages over the relay.
package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigil/internal/domain"
	"sigil/internal/protocol/x3dh"
)

// Service encrypts, posts, fetches and decrypts messages.
//
// High-level flow:
//   - Send: the first message to a peer runs the X3DH initiator handshake
//     and carries the handshake parameters alongside the sealed plaintext;
//     every later message seals under the established session.
//   - Receive: fetch envelopes in order; a handshake envelope from a new
//     peer bootstraps the responder side, later ones open under the stored
//     session. Only successfully processed envelopes are acked.
type Service struct {
	sessionService domain.SessionService
	relayClient    domain.RelayClient
}

// New constructs a message service over the session service and relay client.
func New(sessionService domain.SessionService, relayClient domain.RelayClient) *Service {
	return &Service{
		sessionService: sessionService,
		relayClient:    relayClient,
	}
}

// SendMessage encrypts and posts plaintext to the peer.
//
// With no stored session this is the conversation's first message: the
// X3DH handshake runs here and the plaintext rides inside the handshake
// envelope, so the peer can read it as soon as it re-derives the key.
func (s *Service) SendMessage(
	ctx context.Context,
	passphrase string,
	from domain.Username,
	to domain.Username,
	plaintext []byte,
) error {
	sess, ok, err := s.sessionService.GetSession(to)
	if err != nil {
		return err
	}

	var env domain.Envelope
	if !ok {
		_, env, err = s.sessionService.InitiateSession(ctx, passphrase, from, to, plaintext)
		if err != nil {
			return err
		}
	} else {
		nonce, cipher, err := x3dh.Seal(nil, sess, plaintext)
		if err != nil {
			return err
		}
		env = domain.Envelope{
			From:      from,
			To:        to,
			Nonce:     nonce,
			Cipher:    cipher,
			Timestamp: time.Now().Unix(),
		}
	}
	return s.relayClient.SendMessage(ctx, env)
}

// ReceiveMessages fetches pending envelopes and decrypts them in order.
//
// A handshake envelope establishes the responder-side session before its
// payload is recovered. Envelopes processed before a failure are acked and
// returned alongside the error; the failing envelope and everything after
// it stay queued. Acking the processed prefix even on failure matters: a
// responder-side handshake has already consumed its one-time pre-key, so
// re-fetching it would replay a consumed id and fail on every retry, and a
// decrypted message left queued would be delivered twice.
func (s *Service) ReceiveMessages(
	ctx context.Context,
	passphrase string,
	me domain.Username,
	limit int,
) ([]domain.DecryptedMessage, error) {
	envs, err := s.relayClient.FetchMessages(ctx, me, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedMessage, 0, len(envs))
	var procErr error
	for _, env := range envs {
		var plain []byte
		if env.Handshake != nil {
			_, plain, procErr = s.sessionService.RespondSession(passphrase, env)
			if procErr != nil {
				procErr = fmt.Errorf("handshake from %q: %w", env.From, procErr)
				break
			}
		} else {
			sess, ok, err := s.sessionService.GetSession(env.From)
			if err != nil {
				procErr = err
				break
			}
			if !ok {
				procErr = fmt.Errorf("no session with %q and no handshake attached", env.From)
				break
			}
			plain, err = x3dh.Open(sess, env.Nonce, env.Cipher)
			if err != nil {
				procErr = fmt.Errorf("decrypt from %q: %w", env.From, err)
				break
			}
		}

		out = append(out, domain.DecryptedMessage{
			From:      env.From,
			To:        env.To,
			Plaintext: plain,
			Timestamp: env.Timestamp,
		})
	}

	if len(out) > 0 {
		if err := s.relayClient.AckMessages(ctx, me, len(out)); err != nil {
			procErr = errors.Join(procErr, fmt.Errorf("ack %d messages: %w", len(out), err))
		}
	}
	return out, procErr
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
