package graphql

// Error is a single GraphQL error entry in the shape clients expect
// per the GraphQL-over-HTTP response format.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Result is the outcome of executing a query. An empty error collection
// marshals to no "errors" key at all; entries keep their original order.
// Data is omitted when absent so error-only bodies carry just "errors".
type Result struct {
	Data   any      `json:"data,omitempty"`
	Errors []*Error `json:"errors,omitempty"`
}
