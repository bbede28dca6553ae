// Package feed runs the reply loop: it reads reply lines from a stream,
// parses them, and fans each reply out to the keyword store, the dispatcher
// and NDJSON telemetry.
package feed
