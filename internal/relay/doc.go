// Package relay implements the store-and-forward relay: an HTTP server that
// holds registered pre-key bundles and queued envelopes in memory, and the
// client sigil uses to talk to it.
//
// The relay only ever handles opaque public material: bundles of public
// keys and sealed envelopes. It cannot read messages and performs no
// authentication; it is a deliberately thin external collaborator.
//
// Supported operations:
//   - Publishing a pre-key bundle (last writer wins per username).
//   - Fetching a peer's bundle; the relay hands out at most one one-time
//     pre-key per fetch and removes it from availability.
//   - Posting sealed envelopes to a recipient's queue.
//   - Fetching and acknowledging queued envelopes.
//
// Bodies are CBOR over HTTP. All client methods accept a context for
// cancellation and deadlines; non-2xx statuses are returned as errors with
// the method, URL and status text.
package relay
