/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did decodes the issuer identifier of an NZCP pass. The set of
// supported DID methods is closed: adding a method means adding a
// variant here, not falling back to an open string.
package did

import (
	"errors"
	"fmt"
	"strings"
)

const webPrefix = "did:web:"

// ErrUnsupportedScheme is returned for any identifier whose DID method
// is not did:web.
var ErrUnsupportedScheme = errors.New("unsupported DID scheme")

// UnsupportedSchemeError reports the scheme segment of an identifier
// that uses a DID method other than web.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported DID scheme %q: DID method must be web", e.Scheme)
}

func (e *UnsupportedSchemeError) Unwrap() error {
	return ErrUnsupportedScheme
}

// DID is a decoded decentralized identifier. It is a sealed interface:
// the concrete variants are the only implementations.
type DID interface {
	fmt.Stringer

	isDID()
}

// Web is a did:web identifier. Domain holds everything following the
// did:web: prefix.
type Web struct {
	Domain string
}

func (Web) isDID() {}

func (w Web) String() string {
	return webPrefix + w.Domain
}

// Parse decodes an identifier string into a DID.
func Parse(s string) (DID, error) {
	domain, found := strings.CutPrefix(s, webPrefix)
	if !found {
		return nil, &UnsupportedSchemeError{Scheme: schemeOf(s)}
	}

	return Web{Domain: domain}, nil
}

// schemeOf extracts the method segment of a DID-shaped string for
// diagnostics, e.g. "did:key:z6Mk..." -> "did:key". Strings that are
// not DID-shaped are reported whole.
func schemeOf(s string) string {
	if rest, found := strings.CutPrefix(s, "did:"); found {
		method, _, _ := strings.Cut(rest, ":")

		return "did:" + method
	}

	return s
}
