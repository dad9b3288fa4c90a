// Package proposalengine contains the san2stic community governance engine:
// proposal lifecycle, reputation-gated creation, weighted vote tallies and
// scheduled expiry resolution.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package proposalengine
