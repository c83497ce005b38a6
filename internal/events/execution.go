package events

import "time"

// ExecutionStart is published immediately before a query is dispatched to
// the executor.
type ExecutionStart struct {
	OperationName string
	OperationType string
}

// ExecutionFinish is published once the execution handle resolves.
type ExecutionFinish struct {
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
