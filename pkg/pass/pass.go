/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pass defines the capability a credential-subject schema must
// expose to be decodable from an NZCP pass, plus a runtime registry for
// deployments where the set of pass types is open.
package pass

// Pass is implemented by every credential-subject type. CredentialType
// returns the type tag the subject claims to decode, i.e. the second
// element of the verifiable credential's type array (e.g.
// "PublicCovidPass"). It must be constant for a given type and callable
// on the zero value.
type Pass interface {
	CredentialType() string
}

// DecodeFunc decodes the raw CBOR bytes of a credentialSubject map into
// a concrete subject.
type DecodeFunc func(data []byte) (Pass, error)
