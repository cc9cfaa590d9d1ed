package message_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/internal/domain"
	"sigil/internal/relay"
	identitysvc "sigil/internal/services/identity"
	messagesvc "sigil/internal/services/message"
	prekeysvc "sigil/internal/services/prekey"
	sessionsvc "sigil/internal/services/session"
	"sigil/internal/store"
)

const testPassphrase = "Correct-Horse-Battery-9!"

type party struct {
	name     domain.Username
	identity domain.IdentityService
	prekeys  domain.PreKeyService
	sessions domain.SessionService
	messages domain.MessageService
	relay    domain.RelayClient
}

// newParty wires a full client stack for one user against the shared relay.
func newParty(t *testing.T, name domain.Username, rc domain.RelayClient) *party {
	t.Helper()
	home := t.TempDir()

	identityStore := store.NewIdentityFileStore(home)
	prekeyStore := store.NewPreKeyFileStore(home)
	bundleStore := store.NewBundleFileStore(home)
	sessionStore := store.NewSessionFileStore(home)

	sessions := sessionsvc.New(identityStore, prekeyStore, sessionStore, rc)
	p := &party{
		name:     name,
		identity: identitysvc.New(identityStore),
		prekeys:  prekeysvc.New(identityStore, prekeyStore, bundleStore),
		sessions: sessions,
		messages: messagesvc.New(sessions, rc),
		relay:    rc,
	}

	_, _, err := p.identity.GenerateIdentity(testPassphrase)
	require.NoError(t, err)
	return p
}

func (p *party) register(t *testing.T, ctx context.Context, opks int) {
	t.Helper()
	_, _, err := p.prekeys.GenerateAndStorePreKeys(testPassphrase, opks)
	require.NoError(t, err)
	bundle, err := p.prekeys.LoadPreKeyBundle(testPassphrase, p.name)
	require.NoError(t, err)
	require.NoError(t, p.relay.RegisterPreKeyBundle(ctx, bundle))
}

func newRelayClient(t *testing.T) domain.RelayClient {
	t.Helper()
	srv := httptest.NewServer(relay.NewServer(relay.NewMemoryStore(), nil).Handler())
	t.Cleanup(srv.Close)
	return relay.NewClient(srv.URL, srv.Client())
}

func TestEndToEnd_AliceAndBob(t *testing.T) {
	ctx := context.Background()
	rc := newRelayClient(t)

	alice := newParty(t, "alice", rc)
	bob := newParty(t, "bob", rc)
	bob.register(t, ctx, 3)

	// Alice's first message runs the handshake and carries the plaintext.
	require.NoError(t,
		alice.messages.SendMessage(ctx, testPassphrase, "alice", "bob", []byte("Initial message")))

	got, err := bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("Initial message"), got[0].Plaintext)
	require.Equal(t, domain.Username("alice"), got[0].From)

	// Both sides now hold byte-identical sessions.
	aliceSess, ok, err := alice.sessions.GetSession("bob")
	require.NoError(t, err)
	require.True(t, ok)
	bobSess, ok, err := bob.sessions.GetSession("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, aliceSess.Key, bobSess.Key)
	require.Equal(t, aliceSess.AssociatedData, bobSess.AssociatedData)

	// Follow-up traffic in both directions reuses the session.
	require.NoError(t, alice.messages.SendMessage(ctx, testPassphrase, "alice", "bob", []byte("a1")))
	got, err = bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("a1"), got[0].Plaintext)

	require.NoError(t, bob.messages.SendMessage(ctx, testPassphrase, "bob", "alice", []byte("b1")))
	got, err = alice.messages.ReceiveMessages(ctx, testPassphrase, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("b1"), got[0].Plaintext)

	// Acked envelopes are gone; a new fetch finds an empty queue.
	got, err = bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEndToEnd_TwoInitiatorsConsumeDistinctPreKeys(t *testing.T) {
	ctx := context.Background()
	rc := newRelayClient(t)

	alice := newParty(t, "alice", rc)
	carol := newParty(t, "carol", rc)
	bob := newParty(t, "bob", rc)
	bob.register(t, ctx, 2)

	require.NoError(t, alice.messages.SendMessage(ctx, testPassphrase, "alice", "bob", []byte("from alice")))
	require.NoError(t, carol.messages.SendMessage(ctx, testPassphrase, "carol", "bob", []byte("from carol")))

	got, err := bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	aliceSess, _, err := bob.sessions.GetSession("alice")
	require.NoError(t, err)
	carolSess, _, err := bob.sessions.GetSession("carol")
	require.NoError(t, err)
	require.NotEqual(t, aliceSess.OneTimePreKeyID, carolSess.OneTimePreKeyID,
		"each initiator must consume a distinct one-time pre-key")
	require.NotEqual(t, aliceSess.Key, carolSess.Key)
}

func TestReceive_FailingEnvelopeDoesNotPoisonQueue(t *testing.T) {
	ctx := context.Background()
	rc := newRelayClient(t)

	alice := newParty(t, "alice", rc)
	bob := newParty(t, "bob", rc)
	bob.register(t, ctx, 1)

	// Alice's handshake message lands first; a garbage envelope from a
	// sender bob shares no session with lands right behind it.
	require.NoError(t,
		alice.messages.SendMessage(ctx, testPassphrase, "alice", "bob", []byte("hello")))
	require.NoError(t, rc.SendMessage(ctx, domain.Envelope{
		From:   "mallory",
		To:     "bob",
		Nonce:  []byte{1, 2, 3},
		Cipher: []byte("junk"),
	}))

	// The first receive processes the handshake, fails on the garbage,
	// and still hands back the decrypted message.
	got, err := bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.Error(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("hello"), got[0].Plaintext)

	// The handshake envelope was acked: a retry must not replay the
	// consumed one-time pre-key or redeliver the message. Only the
	// garbage envelope is still queued.
	got, err = bob.messages.ReceiveMessages(ctx, testPassphrase, "bob", 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrUnknownPreKey)
	require.Empty(t, got)

	// The established session is intact and carries traffic back.
	require.NoError(t, bob.messages.SendMessage(ctx, testPassphrase, "bob", "alice", []byte("reply")))
	got, err = alice.messages.ReceiveMessages(ctx, testPassphrase, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("reply"), got[0].Plaintext)
}

func TestSend_WithoutIdentity_FailsClosed(t *testing.T) {
	ctx := context.Background()
	rc := newRelayClient(t)

	bob := newParty(t, "bob", rc)
	bob.register(t, ctx, 1)

	// A party with no identity cannot initiate.
	home := t.TempDir()
	sessions := sessionsvc.New(
		store.NewIdentityFileStore(home),
		store.NewPreKeyFileStore(home),
		store.NewSessionFileStore(home),
		rc,
	)
	msgs := messagesvc.New(sessions, rc)

	err := msgs.SendMessage(ctx, testPassphrase, "ghost", "bob", []byte("boo"))
	require.ErrorIs(t, err, domain.ErrMissingKeyMaterial)
}
