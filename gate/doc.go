// Package gate decides what happens when a user navigates to a protected
// route: render it, send them to login (remembering where they were going),
// or send them to their role's default landing page.
//
// The decision is a pure function over a session snapshot; [Guard] adapts it
// to net/http. The role check is a UX courtesy, not authorization; the
// backend re-checks every request.
package gate
