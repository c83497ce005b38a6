package graphql

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// QueryRequest is the decoded GraphQL request envelope. It is built once
// per invocation from the raw event body and not modified afterwards.
type QueryRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// ParseRequest decodes a raw invocation body into a QueryRequest.
// The body must be a JSON object with a non-empty "query" field;
// operationName and variables are optional.
func ParseRequest(body string) (*QueryRequest, error) {
	var req QueryRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, errors.Wrap(err, "invalid request body")
	}
	if req.Query == "" {
		return nil, errors.New("missing 'query'")
	}
	if req.Variables == nil {
		req.Variables = map[string]any{}
	}
	return &req, nil
}
