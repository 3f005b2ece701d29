/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cose unwraps the COSE_Sign1 structure that carries the CWT
// claims of a signed NZCP pass. It performs no signature verification:
// it exposes the exact signed bytes and the protected headers so an
// external verifier, holding the issuer's keys, can do so.
package cose

import (
	"errors"
	"fmt"

	gocose "github.com/veraison/go-cose"
)

// CBOR tag 18 (COSE_Sign1) in its single-byte head form.
const sign1Tag = 0xd2

var (
	// ErrNotSign1 is returned when the bytes do not carry the
	// COSE_Sign1 tag.
	ErrNotSign1 = errors.New("payload is not a COSE_Sign1 structure")
	// ErrMalformedSign1 is returned when the tagged structure fails to
	// decode.
	ErrMalformedSign1 = errors.New("malformed COSE_Sign1 structure")
)

// IsSign1 reports whether data begins with the COSE_Sign1 tag.
func IsSign1(data []byte) bool {
	return len(data) > 0 && data[0] == sign1Tag
}

// Sign1 is a decoded, unverified COSE_Sign1 structure.
type Sign1 struct {
	message *gocose.Sign1Message
	raw     []byte
}

// UnwrapSign1 decodes data as a tagged COSE_Sign1 structure without
// verifying its signature.
func UnwrapSign1(data []byte) (*Sign1, error) {
	if !IsSign1(data) {
		return nil, ErrNotSign1
	}

	var message gocose.Sign1Message
	if err := message.UnmarshalCBOR(data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedSign1, err.Error())
	}

	return &Sign1{message: &message, raw: data}, nil
}

// PayloadBytes returns the signed payload, i.e. the CWT claim map bytes.
func (s *Sign1) PayloadBytes() []byte {
	return s.message.Payload
}

// Signature returns the raw signature bytes.
func (s *Sign1) Signature() []byte {
	return s.message.Signature
}

// KeyID returns the kid protected header, or nil when absent.
func (s *Sign1) KeyID() []byte {
	kid, _ := s.message.Headers.Protected[gocose.HeaderLabelKeyID].([]byte)

	return kid
}

// Algorithm returns the signing algorithm from the protected headers.
func (s *Sign1) Algorithm() (gocose.Algorithm, error) {
	return s.message.Headers.Protected.Algorithm()
}

// Raw returns the exact tagged bytes the structure was decoded from.
// The slice must not be mutated.
func (s *Sign1) Raw() []byte {
	return s.raw
}

// Message exposes the underlying structure for verifier collaborators.
func (s *Sign1) Message() *gocose.Sign1Message {
	return s.message
}

// Verify checks the signature over the signed structure with the given
// verifier. Key retrieval and issuer trust are the caller's concern.
func (s *Sign1) Verify(verifier gocose.Verifier) error {
	return s.message.Verify(nil, verifier)
}
