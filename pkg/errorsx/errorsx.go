// Copyright 2025 Prometheus Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errorsx classifies tool failures into a small set of kinds.
//
// A kind is attached to an error without changing its message, so provider
// errors surface exactly as the provider reported them while callers can
// still branch on the failure class:
//
//	if errorsx.HasKind(err, errorsx.KindConfiguration) {
//	    // credential missing, nothing was sent over the network
//	}
package errorsx

import (
	"errors"
	"fmt"
)

// Kind is a short machine-readable failure class.
type Kind string

const (
	KindUnknown Kind = "unknown"

	// KindConfiguration means a required credential or environment value is
	// missing. Always detected before any network call.
	KindConfiguration Kind = "configuration"

	// KindMalformedResponse means a provider payload did not have the
	// expected shape.
	KindMalformedResponse Kind = "malformed_response"

	// KindSchemaValidation means model output was not valid JSON or did not
	// match the declared output schema.
	KindSchemaValidation Kind = "schema_validation"

	// KindProviderTransport covers network, auth and rate-limit failures
	// reported by a provider client.
	KindProviderTransport Kind = "provider_transport"

	// KindInvalidArgument means a tool argument was missing, empty or of the
	// wrong type.
	KindInvalidArgument Kind = "invalid_argument"
)

// KindedError wraps an error with a Kind.
type KindedError struct {
	Err  error
	Kind Kind
}

func (e *KindedError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *KindedError) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind from a format string.
func New(kind Kind, format string, args ...any) error {
	return &KindedError{Err: fmt.Errorf(format, args...), Kind: kind}
}

// Wrap attaches a kind to err. It is a no-op if err is nil or already
// carries a kind; the innermost classification wins.
func Wrap(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	var ke *KindedError
	if errors.As(err, &ke) {
		return err
	}
	return &KindedError{Err: err, Kind: kind}
}

// KindOf extracts the kind from err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ke *KindedError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return KindUnknown
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
