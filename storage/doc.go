// Package storage is the persisted client-state collaborator: a small
// key-value surface standing in for what a browser front end keeps in
// localStorage (the raw bearer token and the cached profile entry).
//
// Three implementations ship: [Memory] for tests and ephemeral clients,
// [File] for single-user desktop/CLI clients that must survive restarts,
// and [Redis] for server-side renderers that share client state across
// processes.
//
// Only the session manager writes through this interface. UI components
// reading or writing token storage directly is a bug.
package storage
