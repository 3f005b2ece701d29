/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package testutil builds encoded NZCP barcode fixtures for tests.
package testutil

import (
	"encoding/base32"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// OfficialBarcode is the example pass published with the NZCP
// specification: a COSE_Sign1-wrapped CWT issued by
// did:web:nzcp.covid19.health.nz for Jack Sparrow, born 1960-04-16.
const OfficialBarcode = "NZCP:/1/2KCEVIQEIVVWK6JNGEASNICZAEP2KALYDZSGSZB2O5SWEOTOPJRXALTDN53GSZBRHEXGQZLBNR2GQLTOPICRUYMBTIFAIGTUKBAAUYTWMOSGQQDDN5XHIZLYOSBHQJTIOR2HA4Z2F4XXO53XFZ3TGLTPOJTS6MRQGE4C6Y3SMVSGK3TUNFQWY4ZPOYYXQKTIOR2HA4Z2F4XW46TDOAXGG33WNFSDCOJONBSWC3DUNAXG46RPMNXW45DFPB2HGL3WGFTXMZLSONUW63TFGEXDALRQMR2HS4DFQJ2FMZLSNFTGSYLCNRSUG4TFMRSW45DJMFWG6UDVMJWGSY2DN53GSZCQMFZXG4LDOJSWIZLOORUWC3CTOVRGUZLDOSRWSZ3JOZSW4TTBNVSWISTBMNVWUZTBNVUWY6KOMFWWKZ2TOBQXE4TPO5RWI33CNIYTSNRQFUYDILJRGYDVAYFE6VGU4MCDGK7DHLLYWHVPUS2YIDJOA6Y524TD3AZRM263WTY2BE4DPKIF27WKF3UDNNVSVWRDYIYVJ65IRJJJ6Z25M2DO4YZLBHWFQGVQR5ZLIWEQJOZTS3IQ7JTNCFDX" //nolint:lll

// EncodeBarcode CBOR-encodes claims and wraps them in the NZCP barcode
// scheme.
func EncodeBarcode(t *testing.T, claims interface{}) string {
	t.Helper()

	data, err := cbor.Marshal(claims)
	require.NoError(t, err)

	return WrapBarcode(data)
}

// WrapBarcode wraps raw payload bytes in the NZCP barcode scheme.
func WrapBarcode(data []byte) string {
	return "NZCP:/1/" + encoding.EncodeToString(data)
}

// ValidVC returns a conforming verifiable-credential map with a Public
// Covid Pass subject. Tests mutate it to build violations.
func ValidVC() map[string]interface{} {
	return map[string]interface{}{
		"@context": []interface{}{
			"https://www.w3.org/2018/credentials/v1",
			"https://nzcp.covid19.health.nz/contexts/v1",
		},
		"version": "1.0.0",
		"type":    []interface{}{"VerifiableCredential", "PublicCovidPass"},
		"credentialSubject": map[string]interface{}{
			"givenName":  "John Andrew",
			"familyName": "Doe",
			"dob":        "1979-04-14",
		},
	}
}

// ValidClaims returns a conforming CWT claim map using the short string
// claim keys. Tests mutate it to build violations.
func ValidClaims() map[interface{}]interface{} {
	return map[interface{}]interface{}{
		"iss": "did:web:example.nz",
		"nbf": int64(1516239022),
		"exp": int64(1516239922),
		"cti": "urn:uuid:cc599d04-0d51-4f7e-8ef5-d7b5f8461c5f",
		"vc":  ValidVC(),
	}
}

// ValidNumericClaims returns the same claim map under numeric CWT keys,
// with cti as the raw UUID bytes, matching how conforming passes are
// encoded.
func ValidNumericClaims(t *testing.T) map[interface{}]interface{} {
	t.Helper()

	return map[interface{}]interface{}{
		int64(1): "did:web:example.nz",
		int64(4): int64(1516239922),
		int64(5): int64(1516239022),
		int64(7): []byte{
			0xcc, 0x59, 0x9d, 0x04, 0x0d, 0x51, 0x4f, 0x7e,
			0x8e, 0xf5, 0xd7, 0xb5, 0xf8, 0x46, 0x1c, 0x5f,
		},
		"vc": ValidVC(),
	}
}
