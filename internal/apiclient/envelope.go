package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the {code, message, data} wrapper around every response.
// Data stays raw until a caller decodes it into its own schema.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const successMessage = "Success"

// parseEnvelope returns the payload verbatim when it carries both code and
// data, otherwise wraps it with the HTTP status.
func parseEnvelope(status int, body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Code: status, Message: successMessage, Data: json.RawMessage("null")}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("response is not valid json")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		_, hasCode := fields["code"]
		data, hasData := fields["data"]
		if hasCode && hasData {
			env := &Envelope{Data: data}
			if err := json.Unmarshal(fields["code"], &env.Code); err != nil {
				return nil, fmt.Errorf("decode envelope code: %w", err)
			}
			if raw, ok := fields["message"]; ok {
				if err := json.Unmarshal(raw, &env.Message); err != nil {
					return nil, fmt.Errorf("decode envelope message: %w", err)
				}
			}
			return env, nil
		}
	}

	return &Envelope{Code: status, Message: successMessage, Data: json.RawMessage(trimmed)}, nil
}

// Decode unmarshals the envelope data into T.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &APIError{
			Code:    env.Code,
			Message: fmt.Sprintf("unexpected response shape: %v", err),
			Kind:    KindDecode,
			cause:   err,
		}
	}
	return out, nil
}
