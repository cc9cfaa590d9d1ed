package x3dh

import (
	"fmt"
	"io"
	"time"

	"sigil/internal/crypto"
	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

// Initiate runs the initiator side of X3DH against a peer's pre-key bundle.
//
// It verifies the bundle, generates an ephemeral key pair, computes the DH
// transcript, derives the session key, and seals initialPlaintext under the
// new session. The returned HandshakeMessage plus nonce/ciphertext are what
// the responder needs to re-derive the same session; the caller wraps them
// in an envelope. A nil rng selects crypto/rand.
func Initiate(
	rng io.Reader,
	us domain.Identity,
	bundle domain.PreKeyBundle,
	initialPlaintext []byte,
) (domain.Session, domain.HandshakeMessage, []byte, []byte, error) {
	if err := VerifyBundle(bundle); err != nil {
		return domain.Session{}, domain.HandshakeMessage{}, nil, nil, err
	}

	ephPriv, ephPub, err := crypto.GenerateX25519(rng)
	if err != nil {
		return domain.Session{}, domain.HandshakeMessage{}, nil, nil, err
	}
	defer memzero.Zero(ephPriv[:])

	opk := bundle.OneTimePreKey()
	var opkPub *domain.X25519Public
	if opk != nil {
		opkPub = &opk.Pub
	}

	key, err := transcript(
		dhTerm{us.XPriv, bundle.SignedPreKey}, // DH1 = DH(IKa, SPKb)
		dhTerm{ephPriv, bundle.IdentityKey},   // DH2 = DH(EKa, IKb)
		dhTerm{ephPriv, bundle.SignedPreKey},  // DH3 = DH(EKa, SPKb)
		optTerm(ephPriv, opkPub),              // DH4 = DH(EKa, OPKb)
	)
	if err != nil {
		return domain.Session{}, domain.HandshakeMessage{}, nil, nil, err
	}

	sess := domain.Session{
		PeerUsername:    bundle.Username,
		Key:             key,
		AssociatedData:  associatedData(us.XPub, bundle.IdentityKey),
		PeerIdentityKey: bundle.IdentityKey,
		SignedPreKeyID:  bundle.SignedPreKeyID,
		CreatedUTC:      time.Now().Unix(),
	}
	msg := domain.HandshakeMessage{
		InitiatorIdentityKey: us.XPub,
		EphemeralKey:         ephPub,
		SignedPreKeyID:       bundle.SignedPreKeyID,
	}
	if opk != nil {
		sess.OneTimePreKeyID = opk.ID
		msg.OneTimePreKeyID = opk.ID
	}

	nonce, ct, err := crypto.Seal(rng, sess.Key, initialPlaintext, sess.AssociatedData)
	if err != nil {
		return domain.Session{}, domain.HandshakeMessage{}, nil, nil, err
	}
	return sess, msg, nonce, ct, nil
}

// Respond runs the responder side of X3DH on a received handshake message.
//
// The caller resolves spkPriv by msg.SignedPreKeyID and consumes the
// one-time pre-key private half when msg.OneTimePreKeyID is set; opkPriv is
// nil exactly when the initiator used no one-time pre-key, and both sides
// drop the fourth DH term together. Respond re-derives the session key,
// rebuilds the associated data, and opens the initial ciphertext.
func Respond(
	us domain.Identity,
	spkPriv domain.X25519Private,
	opkPriv *domain.X25519Private,
	from domain.Username,
	msg domain.HandshakeMessage,
	nonce, ciphertext []byte,
) (domain.Session, []byte, error) {
	key, err := transcript(
		dhTerm{spkPriv, msg.InitiatorIdentityKey}, // DH1 = DH(SPKb, IKa)
		dhTerm{us.XPriv, msg.EphemeralKey},        // DH2 = DH(IKb, EKa)
		dhTerm{spkPriv, msg.EphemeralKey},         // DH3 = DH(SPKb, EKa)
		optRespTerm(opkPriv, msg.EphemeralKey),    // DH4 = DH(OPKb, EKa)
	)
	if err != nil {
		return domain.Session{}, nil, err
	}

	sess := domain.Session{
		PeerUsername:    from,
		Key:             key,
		AssociatedData:  associatedData(msg.InitiatorIdentityKey, us.XPub),
		PeerIdentityKey: msg.InitiatorIdentityKey,
		SignedPreKeyID:  msg.SignedPreKeyID,
		OneTimePreKeyID: msg.OneTimePreKeyID,
		CreatedUTC:      time.Now().Unix(),
	}

	plain, err := crypto.Open(sess.Key, nonce, ciphertext, sess.AssociatedData)
	if err != nil {
		return domain.Session{}, nil, fmt.Errorf("opening handshake payload from %q: %w", from, err)
	}
	return sess, plain, nil
}

// dhTerm is one Diffie-Hellman computation of the transcript.
type dhTerm struct {
	priv domain.X25519Private
	pub  domain.X25519Public
}

type maybeTerm struct {
	dhTerm
	skip bool
}

func optTerm(priv domain.X25519Private, pub *domain.X25519Public) maybeTerm {
	if pub == nil {
		return maybeTerm{skip: true}
	}
	return maybeTerm{dhTerm: dhTerm{priv, *pub}}
}

func optRespTerm(priv *domain.X25519Private, pub domain.X25519Public) maybeTerm {
	if priv == nil {
		return maybeTerm{skip: true}
	}
	return maybeTerm{dhTerm: dhTerm{*priv, pub}}
}

// transcript computes DH1..DH3 and the optional DH4 in their fixed order,
// concatenates the outputs, and derives the session key. The intermediate
// secrets are wiped before returning.
func transcript(dh1, dh2, dh3 dhTerm, dh4 maybeTerm) ([domain.SessionKeySize]byte, error) {
	var key [domain.SessionKeySize]byte

	concat := make([]byte, 0, 32*4)
	for _, t := range []dhTerm{dh1, dh2, dh3} {
		out, err := crypto.DH(t.priv, t.pub)
		if err != nil {
			return key, err
		}
		concat = append(concat, out[:]...)
	}
	if !dh4.skip {
		out, err := crypto.DH(dh4.priv, dh4.pub)
		if err != nil {
			return key, err
		}
		concat = append(concat, out[:]...)
	}
	defer memzero.Zero(concat)

	return Derive(concat, PurposeSessionKey)
}
