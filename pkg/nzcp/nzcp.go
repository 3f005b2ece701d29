/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package nzcp decodes New Zealand COVID Pass barcodes into typed,
// validated credential payloads.
//
// The pipeline runs strictly downward: barcode scheme -> base32 ->
// optional COSE_Sign1 unwrap -> CWT claim map -> verifiable credential
// envelope -> credential subject. Each stage either succeeds or fails
// with a diagnosis specific to the violation; malformed input is a
// permanent, deterministic failure. Decoding is a pure function of its
// input and safe to run concurrently on independent inputs.
//
// Signature verification, issuer trust and revocation are external
// collaborators: they consume the decoded payload together with the
// exact signed bytes retained by cose.Sign1 and cwt.Payload.Raw.
package nzcp

import (
	"github.com/trustbloc/nzcp-go/pkg/barcode"
	"github.com/trustbloc/nzcp-go/pkg/cose"
	"github.com/trustbloc/nzcp-go/pkg/credential"
	"github.com/trustbloc/nzcp-go/pkg/cwt"
	"github.com/trustbloc/nzcp-go/pkg/pass"
)

// Opt configures decoding strictness.
type Opt = credential.Opt

// WithStrictContext requires the first @context element to equal
// credential.BaseContext.
func WithStrictContext() Opt {
	return credential.WithStrictContext()
}

// WithExpectedVersion requires the credential version to equal the
// given value.
func WithExpectedVersion(version string) Opt {
	return credential.WithExpectedVersion(version)
}

// Decode decodes a scanned barcode string into a CWT payload whose
// credential subject is the pass schema S. Signed passes are unwrapped
// from their COSE_Sign1 envelope without verification; use DecodeSigned
// when the envelope itself is needed.
func Decode[S pass.Pass](encoded string, opts ...Opt) (*cwt.Payload[S], error) {
	claimBytes, err := decodeClaimBytes(encoded)
	if err != nil {
		return nil, err
	}

	return cwt.Decode[S](claimBytes, opts...)
}

// SignedPass is a decoded pass together with its unverified COSE_Sign1
// envelope.
type SignedPass[S pass.Pass] struct {
	Envelope *cose.Sign1
	Payload  *cwt.Payload[S]
}

// DecodeSigned decodes a scanned barcode string that must carry a
// COSE_Sign1 envelope, returning both the envelope and the decoded
// payload. The envelope holds the exact signed bytes for the external
// signature verifier.
func DecodeSigned[S pass.Pass](encoded string, opts ...Opt) (*SignedPass[S], error) {
	data, err := barcode.Decode(encoded)
	if err != nil {
		return nil, err
	}

	envelope, err := cose.UnwrapSign1(data)
	if err != nil {
		return nil, err
	}

	payload, err := cwt.Decode[S](envelope.PayloadBytes(), opts...)
	if err != nil {
		return nil, err
	}

	return &SignedPass[S]{Envelope: envelope, Payload: payload}, nil
}

// DecodeWithRegistry decodes a scanned barcode string, dispatching the
// credential subject through the registry by the credential type tag.
// It serves deployments where the set of pass types is open at runtime;
// Decode is the static alternative for a build-time set.
func DecodeWithRegistry(encoded string, registry *pass.Registry, opts ...Opt) (*cwt.Claims, pass.Pass, error) {
	claimBytes, err := decodeClaimBytes(encoded)
	if err != nil {
		return nil, nil, err
	}

	claims, err := cwt.DecodeClaims(claimBytes, opts...)
	if err != nil {
		return nil, nil, err
	}

	subject, err := registry.Decode(claims.Credential.CredentialType(), claims.Credential.Subject)
	if err != nil {
		return nil, nil, err
	}

	return claims, subject, nil
}

func decodeClaimBytes(encoded string) ([]byte, error) {
	data, err := barcode.Decode(encoded)
	if err != nil {
		return nil, err
	}

	if !cose.IsSign1(data) {
		return data, nil
	}

	envelope, err := cose.UnwrapSign1(data)
	if err != nil {
		return nil, err
	}

	return envelope.PayloadBytes(), nil
}
