package app

import (
	"net/http"

	"sigil/internal/domain"
	"sigil/internal/relay"
	identitysvc "sigil/internal/services/identity"
	messagesvc "sigil/internal/services/message"
	prekeysvc "sigil/internal/services/prekey"
	sessionsvc "sigil/internal/services/session"
	"sigil/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity domain.IdentityService
	PreKeys  domain.PreKeyService
	Sessions domain.SessionService
	Messages domain.MessageService
	Relay    domain.RelayClient
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home)
	prekeyStore := store.NewPreKeyFileStore(cfg.Home)
	bundleStore := store.NewBundleFileStore(cfg.Home)
	sessionStore := store.NewSessionFileStore(cfg.Home)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rc := relay.NewClient(cfg.RelayURL, httpClient)

	sessionSvc := sessionsvc.New(identityStore, prekeyStore, sessionStore, rc)

	return &Wire{
		Identity: identitysvc.New(identityStore),
		PreKeys:  prekeysvc.New(identityStore, prekeyStore, bundleStore),
		Sessions: sessionSvc,
		Messages: messagesvc.New(sessionSvc, rc),
		Relay:    rc,
		HTTP:     httpClient,
	}, nil
}
