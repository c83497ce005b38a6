// Package events defines the payloads published on the invocation event
// bus. Payloads never carry the query text or variables; they may contain
// sensitive data.
package events

import "time"

// InvocationStart is published when the adapter begins handling a proxy
// event.
type InvocationStart struct {
	RequestID string
}

// InvocationFinish is published after the response envelope is built and
// the invocation cache has been evicted.
type InvocationFinish struct {
	RequestID string
	Status    int
	Duration  time.Duration
}
