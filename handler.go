// Package lambdagraphql adapts AWS API Gateway proxy invocations into
// GraphQL executions against an opaque executor. One Handler serves one
// schema; deployments supply a validator resolving the Authorization
// header to their user type and a builder producing their per-invocation
// execution context.
//
// The handler owns the invocation lifecycle: parse, authenticate, build
// context, dispatch, await, serialize, respond. Failures never reach the
// Lambda runtime as errors; every outcome is folded into a well-formed
// response event. The process-wide cache (see package cache) is evicted
// on every exit path because the runtime reuses execution environments
// across unrelated requests.
package lambdagraphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	abstractlogger "github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/fleetpin/lambda-graphql/cache"
	"github.com/fleetpin/lambda-graphql/graphql"
	"github.com/fleetpin/lambda-graphql/internal/eventbus"
	ev "github.com/fleetpin/lambda-graphql/internal/events"
	"github.com/fleetpin/lambda-graphql/internal/reqid"
)

const (
	headerAuthorization   = "Authorization"
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"
)

// Validator resolves the Authorization header value to a user identity.
// The value may be empty when the header is absent; the validator decides
// what that means. Returning an error wrapping an
// graphql.AccessDeniedError reports the failure as a GraphQL-level error.
type Validator[U any] func(ctx context.Context, authHeader string) (U, error)

// ContextBuilder produces the per-invocation execution context from the
// authenticated user and the parsed query.
type ContextBuilder[U any, C Context] func(user U, query *graphql.QueryRequest) C

// Executor runs a GraphQL query against a prebuilt schema. The graph
// context is the value produced by the deployment's ContextBuilder,
// threaded through explicitly rather than via process-global state.
type Executor interface {
	Execute(ctx context.Context, query, operationName string,
		variables map[string]any, graphContext any) (*graphql.Result, error)
}

// Handler adapts proxy invocations for one schema deployment.
type Handler[U any, C Context] struct {
	executor     Executor
	validate     Validator[U]
	buildContext ContextBuilder[U, C]
	opt          Options
}

// New builds a Handler. Handle is compatible with lambda.Start.
func New[U any, C Context](executor Executor, validate Validator[U],
	buildContext ContextBuilder[U, C], opts ...Option) *Handler[U, C] {
	opt := Options{Log: abstractlogger.NoopLogger}
	for _, f := range opts {
		f(&opt)
	}
	return &Handler[U, C]{
		executor:     executor,
		validate:     validate,
		buildContext: buildContext,
		opt:          opt,
	}
}

// Handle processes one proxy invocation. The returned error is always
// nil: failures are classified into the response instead. The invocation
// cache is evicted before returning on every path, including panics.
func (h *Handler[U, C]) Handle(ctx context.Context, input events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, _ error) {
	awsID := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		awsID = lc.AwsRequestID
	}
	ctx, rid := reqid.NewContext(ctx, awsID)

	start := time.Now()
	eventbus.Publish(ctx, ev.InvocationStart{RequestID: rid})
	defer func() {
		cache.Evict()
		eventbus.Publish(ctx, ev.InvocationFinish{
			RequestID: rid,
			Status:    resp.StatusCode,
			Duration:  time.Since(start),
		})
	}()

	resp = h.handle(ctx, input)
	return resp, nil
}

func (h *Handler[U, C]) handle(ctx context.Context, input events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.failure(errors.Errorf("panic: %v", r))
		}
	}()

	req, err := graphql.ParseRequest(input.Body)
	if err != nil {
		return h.failure(errors.Wrap(err, "parse request"))
	}

	user, err := h.validate(ctx, header(input.Headers, headerAuthorization))
	if err != nil {
		return h.failure(errors.Wrap(err, "validate user"))
	}

	opName, opType := resolveOperation(req)
	if h.opt.AccessLog {
		h.opt.Log.Info("executing operation",
			abstractlogger.String("operationName", opName),
			abstractlogger.String("user", fmt.Sprint(user)),
		)
	}

	graphContext := h.buildContext(user, req)

	execStart := time.Now()
	eventbus.Publish(ctx, ev.ExecutionStart{OperationName: opName, OperationType: opType})
	execution := h.dispatch(ctx, req, graphContext)
	graphContext.Start(execution)

	result, err := execution.Wait(ctx)
	eventbus.Publish(ctx, ev.ExecutionFinish{
		OperationName: opName,
		OperationType: opType,
		Errors:        executionErrors(result, err),
		Duration:      time.Since(execStart),
	})
	if err != nil {
		return h.failure(errors.Wrap(err, "execute query"))
	}

	body, err := json.Marshal(result)
	if err != nil {
		return h.failure(errors.Wrap(err, "serialize result"))
	}

	return h.respond(input.Headers, string(body))
}

// dispatch starts the execution on its own goroutine and returns the
// handle without waiting, so the context's Start hook observes an
// in-flight execution.
func (h *Handler[U, C]) dispatch(ctx context.Context, req *graphql.QueryRequest, graphContext C) *Execution {
	execution := newExecution()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				execution.complete(nil, errors.Errorf("executor panic: %v", r))
			}
		}()
		result, err := h.executor.Execute(ctx, req.Query, req.OperationName, req.Variables, graphContext)
		execution.complete(result, err)
	}()
	return execution
}

func (h *Handler[U, C]) respond(requestHeaders map[string]string, body string) events.APIGatewayV2HTTPResponse {
	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: 200,
		Headers:    responseHeaders(),
		Body:       body,
	}
	if h.acceptsGzip(requestHeaders) {
		compressed, err := gzipBody(body)
		if err != nil {
			return h.failure(errors.Wrap(err, "compress response"))
		}
		resp.Headers[headerContentEncoding] = "gzip"
		resp.Body = compressed
		resp.IsBase64Encoded = true
	}
	return resp
}

// resolveOperation determines the operation name and type for access
// logging and telemetry. Queries that fail to parse are left for the
// executor to report; this lookup is best effort.
func resolveOperation(req *graphql.QueryRequest) (name, typ string) {
	name = req.OperationName
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return name, ""
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil && len(doc.Operations) == 1 {
		op = doc.Operations[0]
	}
	if op != nil {
		if name == "" {
			name = op.Name
		}
		typ = string(op.Operation)
	}
	return name, typ
}

func executionErrors(result *graphql.Result, err error) []error {
	if err != nil {
		return []error{err}
	}
	if result == nil || len(result.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(result.Errors))
	for i, e := range result.Errors {
		errs[i] = e
	}
	return errs
}

// responseHeaders returns a fresh copy of the standard header set.
func responseHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json; charset=utf-8",
	}
}

// header performs a case-insensitive lookup in the incoming header map.
func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
