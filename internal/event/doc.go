// Package event defines the notification bus and event types for the
// ClipForge recording core. Events decouple the recording orchestrator from
// the UI layer and other listeners: the orchestrator publishes lifecycle and
// telemetry events without knowing who consumes them.
//
// All mutate-then-notify paths publish events after releasing the session
// lock, so a handler may safely call back into the orchestrator.
package event
