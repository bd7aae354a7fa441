package model

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform result of every API call.
// Data is only populated when Success is true.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"-"`
}

// RawEnvelope is an envelope whose payload has not been decoded yet.
type RawEnvelope = Envelope[json.RawMessage]

// DecodeEnvelope converts a raw envelope into a typed one.
func DecodeEnvelope[T any](raw *RawEnvelope) (*Envelope[T], error) {
	out := &Envelope[T]{
		Success: raw.Success,
		Message: raw.Message,
		Status:  raw.Status,
	}
	if !raw.Success || len(raw.Data) == 0 || string(raw.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
		return nil, fmt.Errorf("failed to decode response data: %w", err)
	}
	return out, nil
}
