// Package commands defines the sigil CLI: identity management, pre-key
// registration, session initiation, and sending/receiving sealed messages
// through a relay.
package commands
