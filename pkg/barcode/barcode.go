/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package barcode parses the textual envelope of a scanned NZCP 2D
// barcode (`NZCP:/<version>/<base32-encoded-payload>`) and decodes the
// payload segment into the raw CBOR bytes.
package barcode

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// Prefix is the scheme prefix every NZCP barcode payload must begin with.
const Prefix = "NZCP:/"

// SupportedVersion is the only version identifier this decoder accepts.
// Future versions are rejected rather than parsed forward-compatibly.
const SupportedVersion = "1"

var (
	// ErrMissingPrefix is returned when the scanned text does not begin
	// with the NZCP scheme prefix.
	ErrMissingPrefix = errors.New("payload must begin with the prefix NZCP:/")
	// ErrUnsupportedVersion is returned for any version identifier
	// other than "1".
	ErrUnsupportedVersion = errors.New("version identifier must be 1")
	// ErrInvalidBase32 is returned when the payload segment is not valid
	// unpadded RFC 4648 base32.
	ErrInvalidBase32 = errors.New("payload must be base32 encoded")
)

// NZCP payloads carry no padding characters.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Parse validates the scheme prefix and version segment of the scanned
// text and returns the base32 payload segment unmodified.
func Parse(encoded string) (string, error) {
	rest, found := strings.CutPrefix(encoded, Prefix)
	if !found {
		return "", ErrMissingPrefix
	}

	body, found := strings.CutPrefix(rest, SupportedVersion+"/")
	if !found {
		version, _, hasSlash := strings.Cut(rest, "/")
		if !hasSlash {
			return "", fmt.Errorf("%w: missing version segment", ErrUnsupportedVersion)
		}

		return "", fmt.Errorf("%w: got %q", ErrUnsupportedVersion, version)
	}

	return body, nil
}

// Decode parses the scanned text and base32-decodes the payload segment.
// The returned bytes are the exact CBOR structure encoded into the
// barcode; callers that verify signatures need these bytes, not just
// the fields later decoded from them.
func Decode(encoded string) ([]byte, error) {
	body, err := Parse(encoded)
	if err != nil {
		return nil, err
	}

	data, err := encoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBase32, err.Error())
	}

	return data, nil
}
