package lambdagraphql

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	abstractlogger "github.com/jensneuse/abstractlogger"

	"github.com/fleetpin/lambda-graphql/graphql"
)

const internalErrorBody = "Internal Server Error"

// failure maps an invocation failure to one of two response shapes.
// Access denials are part of the query's own authorization model and
// surface as a GraphQL error at 200; everything else is a transport-level
// 500 whose body stays generic unless failure detail is enabled.
func (h *Handler[U, C]) failure(err error) events.APIGatewayV2HTTPResponse {
	if graphql.IsAccessDenied(err) {
		h.opt.Log.Error("access denied", abstractlogger.Error(err))
		body, merr := json.Marshal(graphql.DeniedResult(err))
		if merr == nil {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 200,
				Headers:    responseHeaders(),
				Body:       string(body),
			}
		}
		err = merr
	}

	h.opt.Log.Error("invocation failed", abstractlogger.Error(err))
	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Headers:    responseHeaders(),
		Body:       internalErrorBody,
	}
	if h.opt.ShowFailureCause {
		resp.Body = fmt.Sprintf("%+v", err)
	}
	return resp
}
