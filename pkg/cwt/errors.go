/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cwt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload is returned when the decoded bytes are not a
	// CBOR map.
	ErrMalformedPayload = errors.New("CWT payload must be a CBOR map")
	// ErrMissingField is returned when a required claim is absent.
	ErrMissingField = errors.New("missing required claim")
	// ErrWrongFieldType is returned when a claim is present with the
	// wrong CBOR type.
	ErrWrongFieldType = errors.New("claim has wrong type")
	// ErrTimestampOutOfRange is returned when a date claim holds an
	// epoch value outside the representable calendar range.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
	// ErrInvalidTokenID is returned when the cti claim does not hold a
	// UUID.
	ErrInvalidTokenID = errors.New("invalid token identifier")
)

// MissingFieldError reports a required claim absent from the CWT map.
type MissingFieldError struct {
	Claim string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required claim %q", e.Claim)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// FieldTypeError reports a claim present with the wrong CBOR type.
type FieldTypeError struct {
	Claim string
	Err   error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("claim %q has wrong type: %s", e.Claim, e.Err.Error())
}

func (e *FieldTypeError) Unwrap() []error {
	return []error{ErrWrongFieldType, e.Err}
}

// TimestampRangeError reports a date claim whose epoch seconds fall
// outside years 1 through 9999. Out-of-range values fail, never clamp.
type TimestampRangeError struct {
	Claim   string
	Seconds int64
}

func (e *TimestampRangeError) Error() string {
	return fmt.Sprintf("claim %q timestamp %d is outside the representable calendar range", e.Claim, e.Seconds)
}

func (e *TimestampRangeError) Unwrap() error {
	return ErrTimestampOutOfRange
}
