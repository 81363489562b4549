// Package stitchgate is the client-side session core for a bespoke tailoring
// storefront: it decides "who is logged in" for a running client, survives
// restarts through a bounded-lifetime profile cache, and feeds the role gate
// that guards storefront and back-office routes.
//
// The package is the public surface. It exposes [Manager], [Builder],
// [Config], and value types; the session state machine lives under
// internal/ and is never exported directly. Leaf packages cover the
// collaborators: api (the REST backend client), storage (persisted client
// state), token (unsigned claim reads), and gate (route decisions).
//
// # Architecture boundaries
//
//   - All authority lives server-side. Token claims and role checks here
//     exist to avoid flashing inaccessible UI, never to enforce access.
//   - Only [Manager] writes token and cache storage. Route components read
//     session state through [Manager.Snapshot] and never touch storage.
//   - [Manager.Bootstrap] must reach a determinate state before any gate
//     decision is trusted; gate callers treat the loading phase as
//     "decision pending", not "unauthenticated".
package stitchgate
