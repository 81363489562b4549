// Package otel bridges the session core's in-process counters into an
// OpenTelemetry meter as observable counters, so hosts that already run an
// OTel pipeline get session metrics without a second collection path.
package otel
