package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/swatches/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared envelope:
// {v, success, data} on success and {v, success, error, code, message,
// details} on failure. Raw byte bodies such as images pass through untouched.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case []byte:
		return body, nil
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case huma.StatusError:
		return response.Fail(statusToCode(body.GetStatus()), body.Error(), nil), nil
	case error:
		code, _ := strconv.Atoi(status)
		return response.Fail(statusToCode(code), body.Error(), nil), nil
	default:
		return response.Ok(v), nil
	}
}
