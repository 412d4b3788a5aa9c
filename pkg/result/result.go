// Package result provides the tagged Ok/Err value returned by every API operation.
package result

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Result holds either a success payload or an error message, never both.
type Result[T any] struct {
	value T
	err   string
	isErr bool
}

// Ok wraps a success payload.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps an error message.
func Err[T any](msg string) Result[T] {
	return Result[T]{err: msg, isErr: true}
}

// From builds a Result from a Go value/error pair. The error text becomes the message.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err.Error())
	}
	return Ok(v)
}

// IsOk reports whether r holds a success payload.
func (r Result[T]) IsOk() bool { return !r.isErr }

// Value returns the payload and whether r is Ok.
func (r Result[T]) Value() (T, bool) { return r.value, !r.isErr }

// Error returns the error message and whether r is Err.
func (r Result[T]) Error() (string, bool) { return r.err, r.isErr }

type wire[T any] struct {
	Ok  *T      `json:"Ok,omitempty"`
	Err *string `json:"Err,omitempty"`
}

// MarshalJSON encodes r as {"Ok": ...} or {"Err": "..."}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.isErr {
		msg := r.err
		return json.Marshal(wire[T]{Err: &msg})
	}
	v := r.value
	return json.Marshal(wire[T]{Ok: &v})
}

var errAmbiguous = errors.New("result: exactly one of Ok or Err must be set")

// UnmarshalJSON decodes the tagged form produced by MarshalJSON.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	okRaw, hasOk := raw["Ok"]
	errRaw, hasErr := raw["Err"]
	if hasOk == hasErr {
		return errAmbiguous
	}
	if hasErr {
		var msg string
		if err := json.Unmarshal(errRaw, &msg); err != nil {
			return fmt.Errorf("decode result error: %w", err)
		}
		*r = Err[T](msg)
		return nil
	}
	var v T
	if !bytes.Equal(bytes.TrimSpace(okRaw), []byte("null")) {
		if err := json.Unmarshal(okRaw, &v); err != nil {
			return fmt.Errorf("decode result value: %w", err)
		}
	}
	*r = Ok(v)
	return nil
}
