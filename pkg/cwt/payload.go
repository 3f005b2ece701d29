/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cwt decodes the CBOR Web Token claim map of an NZCP pass into
// typed fields: token id, issuer DID, validity window and the nested
// verifiable credential.
//
// Claims are accepted under their numeric CWT keys (1 iss, 4 exp,
// 5 nbf, 7 cti), which is how conforming passes are encoded, and under
// the equivalent short string keys. Unknown keys are ignored. String
// values are copied out of the input buffer by CBOR decoding; the exact
// input bytes remain available through Raw for signature verification.
package cwt

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/trustbloc/nzcp-go/pkg/credential"
	"github.com/trustbloc/nzcp-go/pkg/did"
	"github.com/trustbloc/nzcp-go/pkg/pass"
)

// Claim names used in diagnostics.
const (
	ClaimIssuer     = "iss"
	ClaimExpiry     = "exp"
	ClaimNotBefore  = "nbf"
	ClaimTokenID    = "cti"
	ClaimCredential = "vc"
)

// Epoch bounds of years 1 through 9999.
const (
	minEpochSeconds = -62135596800
	maxEpochSeconds = 253402300799
)

// Payload is a decoded CWT claim map with the credential subject
// decoded as S.
//
// The decoder guarantees that NotBefore and Expiry each parse as valid
// timestamps; it does not compare them. Whether an expired or
// not-yet-active pass is acceptable belongs to the policy layer.
type Payload[S pass.Pass] struct {
	TokenID    uuid.UUID
	Issuer     did.DID
	NotBefore  time.Time
	Expiry     time.Time
	Credential *credential.VerifiableCredential[S]

	raw []byte
}

// Raw returns the exact CBOR bytes the payload was decoded from.
// Signature verification operates on these bytes, not on the decoded
// fields. The slice must not be mutated.
func (p *Payload[S]) Raw() []byte {
	return p.raw
}

// Claims is a decoded CWT claim map with the credential subject left as
// raw CBOR bytes, for dispatch through a pass.Registry.
type Claims struct {
	TokenID    uuid.UUID
	Issuer     did.DID
	NotBefore  time.Time
	Expiry     time.Time
	Credential *credential.Envelope

	raw []byte
}

// Raw returns the exact CBOR bytes the claims were decoded from. The
// slice must not be mutated.
func (c *Claims) Raw() []byte {
	return c.raw
}

type rawClaims struct {
	Issuer     cbor.RawMessage `cbor:"1,keyasint,omitempty"`
	Expiry     cbor.RawMessage `cbor:"4,keyasint,omitempty"`
	NotBefore  cbor.RawMessage `cbor:"5,keyasint,omitempty"`
	TokenID    cbor.RawMessage `cbor:"7,keyasint,omitempty"`
	Credential cbor.RawMessage `cbor:"vc,omitempty"`

	IssuerStr    cbor.RawMessage `cbor:"iss,omitempty"`
	ExpiryStr    cbor.RawMessage `cbor:"exp,omitempty"`
	NotBeforeStr cbor.RawMessage `cbor:"nbf,omitempty"`
	TokenIDStr   cbor.RawMessage `cbor:"cti,omitempty"`
}

// Decode decodes data as a CWT claim map whose credential subject is
// the pass schema S. Envelope strictness options are passed through to
// the credential layer.
func Decode[S pass.Pass](data []byte, opts ...credential.Opt) (*Payload[S], error) {
	common, err := decodeCommon(data)
	if err != nil {
		return nil, err
	}

	vc, err := credential.Decode[S](common.credentialRaw, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode claim %q: %w", ClaimCredential, err)
	}

	return &Payload[S]{
		TokenID:    common.tokenID,
		Issuer:     common.issuer,
		NotBefore:  common.notBefore,
		Expiry:     common.expiry,
		Credential: vc,
		raw:        data,
	}, nil
}

// DecodeClaims decodes data as a CWT claim map, leaving the credential
// subject as raw CBOR bytes.
func DecodeClaims(data []byte, opts ...credential.Opt) (*Claims, error) {
	common, err := decodeCommon(data)
	if err != nil {
		return nil, err
	}

	envelope, err := credential.DecodeEnvelope(common.credentialRaw, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode claim %q: %w", ClaimCredential, err)
	}

	return &Claims{
		TokenID:    common.tokenID,
		Issuer:     common.issuer,
		NotBefore:  common.notBefore,
		Expiry:     common.expiry,
		Credential: envelope,
		raw:        data,
	}, nil
}

type commonClaims struct {
	tokenID       uuid.UUID
	issuer        did.DID
	notBefore     time.Time
	expiry        time.Time
	credentialRaw cbor.RawMessage
}

func decodeCommon(data []byte) (*commonClaims, error) {
	var raw rawClaims
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err.Error())
	}

	tokenID, err := decodeTokenID(coalesce(raw.TokenID, raw.TokenIDStr))
	if err != nil {
		return nil, err
	}

	issuer, err := decodeIssuer(coalesce(raw.Issuer, raw.IssuerStr))
	if err != nil {
		return nil, err
	}

	notBefore, err := decodeNumericDate(coalesce(raw.NotBefore, raw.NotBeforeStr), ClaimNotBefore)
	if err != nil {
		return nil, err
	}

	expiry, err := decodeNumericDate(coalesce(raw.Expiry, raw.ExpiryStr), ClaimExpiry)
	if err != nil {
		return nil, err
	}

	if raw.Credential == nil {
		return nil, &MissingFieldError{Claim: ClaimCredential}
	}

	return &commonClaims{
		tokenID:       tokenID,
		issuer:        issuer,
		notBefore:     notBefore,
		expiry:        expiry,
		credentialRaw: raw.Credential,
	}, nil
}

func coalesce(numeric, str cbor.RawMessage) cbor.RawMessage {
	if numeric != nil {
		return numeric
	}

	return str
}

// decodeTokenID accepts the cti claim either as the raw 16 UUID bytes
// (the conforming CWT encoding) or as UUID text, with or without the
// urn:uuid: wrapper.
func decodeTokenID(raw cbor.RawMessage) (uuid.UUID, error) {
	if raw == nil {
		return uuid.UUID{}, &MissingFieldError{Claim: ClaimTokenID}
	}

	var b []byte
	if err := cbor.Unmarshal(raw, &b); err == nil {
		id, err := uuid.FromBytes(b)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("%w: %s", ErrInvalidTokenID, err.Error())
		}

		return id, nil
	}

	var s string
	if err := cbor.Unmarshal(raw, &s); err != nil {
		return uuid.UUID{}, &FieldTypeError{Claim: ClaimTokenID, Err: err}
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %s", ErrInvalidTokenID, err.Error())
	}

	return id, nil
}

func decodeIssuer(raw cbor.RawMessage) (did.DID, error) {
	if raw == nil {
		return nil, &MissingFieldError{Claim: ClaimIssuer}
	}

	var s string
	if err := cbor.Unmarshal(raw, &s); err != nil {
		return nil, &FieldTypeError{Claim: ClaimIssuer, Err: err}
	}

	issuer, err := did.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("decode claim %q: %w", ClaimIssuer, err)
	}

	return issuer, nil
}

func decodeNumericDate(raw cbor.RawMessage, claim string) (time.Time, error) {
	if raw == nil {
		return time.Time{}, &MissingFieldError{Claim: claim}
	}

	var value interface{}
	if err := cbor.Unmarshal(raw, &value); err != nil {
		return time.Time{}, &FieldTypeError{Claim: claim, Err: err}
	}

	var seconds int64

	switch v := value.(type) {
	case int64:
		seconds = v
	case uint64:
		if v > maxEpochSeconds {
			return time.Time{}, &TimestampRangeError{Claim: claim, Seconds: int64(v)}
		}

		seconds = int64(v)
	default:
		return time.Time{}, &FieldTypeError{
			Claim: claim,
			Err:   fmt.Errorf("expected integer epoch seconds, got %T", value),
		}
	}

	if seconds < minEpochSeconds || seconds > maxEpochSeconds {
		return time.Time{}, &TimestampRangeError{Claim: claim, Seconds: seconds}
	}

	return time.Unix(seconds, 0).UTC(), nil
}
