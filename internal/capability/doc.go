// Package capability implements the capability registry for the session host.
//
// Capabilities expose analysis, corpus, and plotting operations through a
// tool-based interface. A provider registers itself under a stable ID and
// executes tools named "<capability>.<operation>".
//
// Lookup via Get returns (Provider, bool): an absent capability is a normal
// outcome, which is what lets extensions degrade silently when an optional
// dependency is not installed.
package capability
