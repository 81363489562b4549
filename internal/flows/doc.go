// Package flows holds the session state machine: the State record, every
// legal transition, the fetch cooldown rule, the cache entry codec, and
// login input validation.
//
// Everything here is pure: no I/O, no locking, no clock reads. The root
// Manager owns the mutex, the storage writes, and the network calls, and
// applies these transitions under its lock. Keeping the transitions pure is
// what makes the TTL, throttle, and 401 semantics testable without a
// backend.
package flows
