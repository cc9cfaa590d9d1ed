package interfaces

import (
	"context"

	domaintypes "sigil/internal/domain/types"
)

// RelayClient is how we talk to the store-and-forward relay server. The
// relay only ever sees opaque public bundles and sealed envelopes.
type RelayClient interface {
	RegisterPreKeyBundle(ctx context.Context, bundle domaintypes.PreKeyBundle) error

	// FetchPreKeyBundle returns the peer's bundle with at most one
	// one-time pre-key, which the relay removes from availability.
	FetchPreKeyBundle(
		ctx context.Context,
		username domaintypes.Username,
	) (domaintypes.PreKeyBundle, error)

	SendMessage(ctx context.Context, envelope domaintypes.Envelope) error
	FetchMessages(
		ctx context.Context,
		username domaintypes.Username,
		limit int,
	) ([]domaintypes.Envelope, error)
	AckMessages(ctx context.Context, username domaintypes.Username, count int) error
}
