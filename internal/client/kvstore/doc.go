// Package kvstore is the client's persisted key space: typed reads and
// writes of JSON values over a pluggable byte backend (sqlite, redis or
// memory).
//
// The key space is shared, externally editable state. Reads never fail:
// a missing key, a backend error, an undecodable payload or a payload that
// violates the key's registered JSON Schema all yield the caller's default.
// Everything except a missing key is logged and counted as malformed local
// state (see Store.Diagnostics) but is never returned to the caller.
//
// ReadList reads arrays element by element, so one bad record costs only
// that record.
package kvstore
