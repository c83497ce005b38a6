package graphql

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResultOmitsEmptyErrors(t *testing.T) {
	for _, res := range []*Result{
		{Data: map[string]any{"me": map[string]any{"id": "123"}}},
		{Data: map[string]any{"me": map[string]any{"id": "123"}}, Errors: []*Error{}},
	} {
		raw, err := json.Marshal(res)
		require.NoError(t, err)
		require.JSONEq(t, `{"data":{"me":{"id":"123"}}}`, string(raw))
	}
}

func TestResultKeepsErrorOrder(t *testing.T) {
	res := &Result{Errors: []*Error{
		{Message: "first", Path: []any{"me", 0}},
		{Message: "second"},
	}}
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Errors, 2)
	require.Equal(t, "first", decoded.Errors[0].Message)
	require.Equal(t, "second", decoded.Errors[1].Message)
}

func TestIsAccessDenied(t *testing.T) {
	denied := NewAccessDenied("token expired")
	require.True(t, IsAccessDenied(denied))
	require.True(t, IsAccessDenied(errors.Wrap(denied, "validate user")))

	tagged := &Error{Message: "no access to field", Extensions: map[string]any{"code": CodeAccessDenied}}
	require.True(t, IsAccessDenied(errors.Wrap(tagged, "execute query")))

	require.False(t, IsAccessDenied(errors.New("connection refused")))
	require.False(t, IsAccessDenied(&Error{Message: "boom"}))
}

func TestDeniedResult(t *testing.T) {
	res := DeniedResult(errors.Wrap(NewAccessDenied("token expired"), "validate user"))
	require.Len(t, res.Errors, 1)
	require.Equal(t, "token expired", res.Errors[0].Message)
	require.Equal(t, CodeAccessDenied, res.Errors[0].Extensions["code"])

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"data"`)
}
