/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope is returned when the vc claim is not a CBOR map.
	ErrMalformedEnvelope = errors.New("verifiable credential must be a map")
	// ErrMissingField is returned when a required envelope field is absent.
	ErrMissingField = errors.New("missing required envelope field")
	// ErrWrongFieldType is returned when an envelope field is present
	// with the wrong CBOR type.
	ErrWrongFieldType = errors.New("envelope field has wrong type")
	// ErrWrongContextShape is returned when @context is not a non-empty
	// array of strings.
	ErrWrongContextShape = errors.New("@context must be a non-empty array of strings")
	// ErrWrongTypeArity is returned when the type array does not hold
	// exactly two strings.
	ErrWrongTypeArity = errors.New("type must be an array of two strings")
	// ErrTypeMismatch is returned when a type array element does not
	// match the credential type expected for it.
	ErrTypeMismatch = errors.New("credential type mismatch")
	// ErrContextMismatch is returned in strict mode when the first
	// @context element is not the base W3C credentials context.
	ErrContextMismatch = errors.New("@context mismatch")
	// ErrVersionMismatch is returned when an expected version is
	// configured and the decoded version differs.
	ErrVersionMismatch = errors.New("version mismatch")
	// ErrSubjectDecode is returned when the credentialSubject map fails
	// to decode as the requested subject schema.
	ErrSubjectDecode = errors.New("decode credential subject")
)

// MissingFieldError reports a required envelope field absent from the
// verifiable credential map.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("verifiable credential is missing required field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// FieldTypeError reports an envelope field present with the wrong CBOR type.
type FieldTypeError struct {
	Field string
	Err   error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("verifiable credential field %q has wrong type: %s", e.Field, e.Err.Error())
}

func (e *FieldTypeError) Unwrap() []error {
	return []error{ErrWrongFieldType, e.Err}
}

// WrongTypeArityError reports a type array with an element count other
// than two.
type WrongTypeArityError struct {
	Got int
}

func (e *WrongTypeArityError) Error() string {
	return fmt.Sprintf("type must be an array of two strings, got %d elements", e.Got)
}

func (e *WrongTypeArityError) Unwrap() error {
	return ErrWrongTypeArity
}

// TypeMismatchError reports a type array element that does not carry
// the expected credential type.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("credential type mismatch: want %q, got %q", e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// ContextMismatchError reports a first @context element other than
// BaseContext while strict context matching is enabled.
type ContextMismatchError struct {
	Got string
}

func (e *ContextMismatchError) Error() string {
	return fmt.Sprintf("@context must begin with %q, got %q", BaseContext, e.Got)
}

func (e *ContextMismatchError) Unwrap() error {
	return ErrContextMismatch
}

// VersionMismatchError reports a version string other than the expected
// one configured with WithExpectedVersion.
type VersionMismatchError struct {
	Want string
	Got  string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version must be %q, got %q", e.Want, e.Got)
}

func (e *VersionMismatchError) Unwrap() error {
	return ErrVersionMismatch
}

// SubjectDecodeError wraps a failure from the subject schema's own
// decode step.
type SubjectDecodeError struct {
	Err error
}

func (e *SubjectDecodeError) Error() string {
	return fmt.Sprintf("decode credential subject: %s", e.Err.Error())
}

func (e *SubjectDecodeError) Unwrap() []error {
	return []error{ErrSubjectDecode, e.Err}
}
