package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dtroode/tourdesk/internal/model"
)

var errMalformedResponse = errors.New("malformed response body")

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// normalize turns any response into an envelope. The body is parsed as JSON
// regardless of status. A body that is not JSON is an error.
//
// Success requires a 2xx status and, when the body carries a success field,
// that field to be true. Data is kept only on success. Bodies that are not
// envelopes are treated as the data itself.
func normalize(resp *response) (*model.RawEnvelope, error) {
	env := &model.RawEnvelope{
		Success: isSuccess(resp.status),
		Status:  resp.status,
	}

	body := bytes.TrimSpace(resp.body)
	if len(body) == 0 {
		return env, nil
	}
	if !json.Valid(body) {
		return nil, errMalformedResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// Valid JSON that is not an object: an array or scalar payload.
		if env.Success {
			env.Data = json.RawMessage(body)
		}
		return env, nil
	}

	rawSuccess, hasSuccess := fields["success"]
	if hasSuccess {
		var ok bool
		if err := json.Unmarshal(rawSuccess, &ok); err == nil {
			env.Success = env.Success && ok
		}
	}

	env.Message = messageOf(fields)

	if env.Success {
		if data, ok := fields["data"]; ok {
			env.Data = data
		} else if !hasSuccess {
			env.Data = json.RawMessage(body)
		}
	}

	return env, nil
}

// messageOf returns the server message, falling back to an "error" string field.
func messageOf(fields map[string]json.RawMessage) string {
	for _, key := range []string{"message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
