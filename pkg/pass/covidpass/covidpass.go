/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package covidpass implements the Public Covid Pass credential
// subject: the pass holder's names and date of birth.
package covidpass

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/trustbloc/nzcp-go/pkg/pass"
)

// CredentialType is the type tag a Public Covid Pass carries as the
// second element of its credential type array.
const CredentialType = "PublicCovidPass"

// dob values are ISO 8601 calendar dates.
const dobLayout = "2006-01-02"

var (
	// ErrMalformedSubject is returned when the credentialSubject is not
	// a CBOR map.
	ErrMalformedSubject = errors.New("credential subject must be a map")
	// ErrInvalidDateOfBirth is returned when dob is not a YYYY-MM-DD
	// calendar date. Callers distinguish this from structural errors.
	ErrInvalidDateOfBirth = errors.New("invalid date of birth")
	// ErrMissingField is returned when a required subject field is absent.
	ErrMissingField = errors.New("missing required subject field")
	// ErrWrongFieldType is returned when a subject field is present with
	// the wrong CBOR type.
	ErrWrongFieldType = errors.New("subject field has wrong type")
)

// MissingFieldError reports a required subject field absent from the
// credentialSubject map.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("credential subject is missing required field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// FieldTypeError reports a subject field present with the wrong CBOR type.
type FieldTypeError struct {
	Field string
	Err   error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("credential subject field %q has wrong type: %s", e.Field, e.Err.Error())
}

func (e *FieldTypeError) Unwrap() []error {
	return []error{ErrWrongFieldType, e.Err}
}

// PublicCovidPass is the decoded subject of a Public Covid Pass.
type PublicCovidPass struct {
	GivenName  string
	FamilyName string
	// DOB holds the holder's date of birth at UTC midnight.
	DOB time.Time
}

// CredentialType implements pass.Pass.
func (PublicCovidPass) CredentialType() string {
	return CredentialType
}

type rawSubject struct {
	GivenName  cbor.RawMessage `cbor:"givenName"`
	FamilyName cbor.RawMessage `cbor:"familyName"`
	DOB        cbor.RawMessage `cbor:"dob"`
}

// UnmarshalCBOR decodes the credentialSubject map, requiring string
// fields givenName and familyName and a dob field holding a valid
// YYYY-MM-DD calendar date. Unknown fields are ignored.
func (p *PublicCovidPass) UnmarshalCBOR(data []byte) error {
	var raw rawSubject
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedSubject, err.Error())
	}

	givenName, err := decodeString(raw.GivenName, "givenName")
	if err != nil {
		return err
	}

	familyName, err := decodeString(raw.FamilyName, "familyName")
	if err != nil {
		return err
	}

	dobText, err := decodeString(raw.DOB, "dob")
	if err != nil {
		return err
	}

	dob, err := time.Parse(dobLayout, dobText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateOfBirth, dobText)
	}

	p.GivenName = givenName
	p.FamilyName = familyName
	p.DOB = dob

	return nil
}

// Decode is a registry-compatible subject decoder.
func Decode(data []byte) (pass.Pass, error) {
	var p PublicCovidPass
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return p, nil
}

func decodeString(raw cbor.RawMessage, field string) (string, error) {
	if raw == nil {
		return "", &MissingFieldError{Field: field}
	}

	var s string
	if err := cbor.Unmarshal(raw, &s); err != nil {
		return "", &FieldTypeError{Field: field, Err: err}
	}

	return s, nil
}
