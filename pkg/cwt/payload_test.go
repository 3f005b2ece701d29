/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cwt_test

import (
	"math"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/nzcp-go/pkg/credential"
	"github.com/trustbloc/nzcp-go/pkg/cwt"
	"github.com/trustbloc/nzcp-go/pkg/did"
	"github.com/trustbloc/nzcp-go/pkg/internal/testutil"
	"github.com/trustbloc/nzcp-go/pkg/pass/covidpass"
)

func marshalClaims(t *testing.T, claims interface{}) []byte {
	t.Helper()

	data, err := cbor.Marshal(claims)
	require.NoError(t, err)

	return data
}

func TestDecode(t *testing.T) {
	wantTokenID := uuid.MustParse("cc599d04-0d51-4f7e-8ef5-d7b5f8461c5f")

	assertDecoded := func(t *testing.T, payload *cwt.Payload[covidpass.PublicCovidPass]) {
		t.Helper()

		assert.Equal(t, wantTokenID, payload.TokenID)
		assert.Equal(t, did.Web{Domain: "example.nz"}, payload.Issuer)
		assert.Equal(t, time.Date(2018, time.January, 18, 1, 30, 22, 0, time.UTC), payload.NotBefore)
		assert.Equal(t, time.Date(2018, time.January, 18, 1, 45, 22, 0, time.UTC), payload.Expiry)
		assert.Equal(t, time.Unix(1516239022, 0).UTC(), payload.NotBefore)
		assert.Equal(t, time.Unix(1516239922, 0).UTC(), payload.Expiry)
		assert.Equal(t, "1.0.0", payload.Credential.Version)
		assert.Equal(t, "John Andrew", payload.Credential.Subject.GivenName)
		assert.Equal(t, "Doe", payload.Credential.Subject.FamilyName)
		assert.Equal(t, "1979-04-14", payload.Credential.Subject.DOB.Format("2006-01-02"))
	}

	t.Run("string claim keys", func(t *testing.T) {
		data := marshalClaims(t, testutil.ValidClaims())

		payload, err := cwt.Decode[covidpass.PublicCovidPass](data)
		require.NoError(t, err)

		assertDecoded(t, payload)
		assert.Equal(t, data, payload.Raw())
	})

	t.Run("numeric claim keys with binary cti", func(t *testing.T) {
		data := marshalClaims(t, testutil.ValidNumericClaims(t))

		payload, err := cwt.Decode[covidpass.PublicCovidPass](data)
		require.NoError(t, err)

		assertDecoded(t, payload)
	})

	t.Run("unknown claims ignored", func(t *testing.T) {
		claims := testutil.ValidClaims()
		claims[int64(99)] = "reserved"
		claims["hcert"] = []byte{0x01}

		_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
		assert.NoError(t, err)
	})

	t.Run("not a map", func(t *testing.T) {
		_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, []int{1, 2, 3}))
		assert.ErrorIs(t, err, cwt.ErrMalformedPayload)
	})

	t.Run("missing claims", func(t *testing.T) {
		for _, claim := range []string{"iss", "nbf", "exp", "cti", "vc"} {
			t.Run(claim, func(t *testing.T) {
				claims := testutil.ValidClaims()
				delete(claims, claim)

				_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
				require.ErrorIs(t, err, cwt.ErrMissingField)

				var missingErr *cwt.MissingFieldError
				require.ErrorAs(t, err, &missingErr)
				assert.Equal(t, claim, missingErr.Claim)
			})
		}
	})

	t.Run("issuer wrong type", func(t *testing.T) {
		claims := testutil.ValidClaims()
		claims["iss"] = int64(7)

		_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
		require.ErrorIs(t, err, cwt.ErrWrongFieldType)

		var typeErr *cwt.FieldTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "iss", typeErr.Claim)
	})

	t.Run("issuer unsupported scheme", func(t *testing.T) {
		claims := testutil.ValidClaims()
		claims["iss"] = "did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK"

		_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
		assert.ErrorIs(t, err, did.ErrUnsupportedScheme)
	})

	t.Run("token id", func(t *testing.T) {
		t.Run("urn wrapper accepted", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["cti"] = "urn:uuid:60a4f54d-4e30-4332-be33-ad78b1eafa4b"

			payload, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			require.NoError(t, err)
			assert.Equal(t, uuid.MustParse("60a4f54d-4e30-4332-be33-ad78b1eafa4b"), payload.TokenID)
		})

		t.Run("bare uuid text accepted", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["cti"] = "60a4f54d-4e30-4332-be33-ad78b1eafa4b"

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			assert.NoError(t, err)
		})

		t.Run("invalid text", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["cti"] = "not-a-uuid"

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			assert.ErrorIs(t, err, cwt.ErrInvalidTokenID)
		})

		t.Run("wrong byte length", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["cti"] = []byte{0x01, 0x02, 0x03}

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			assert.ErrorIs(t, err, cwt.ErrInvalidTokenID)
		})

		t.Run("wrong type", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["cti"] = int64(12345)

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			require.ErrorIs(t, err, cwt.ErrWrongFieldType)

			var typeErr *cwt.FieldTypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, "cti", typeErr.Claim)
		})
	})

	t.Run("timestamps", func(t *testing.T) {
		t.Run("wrong type", func(t *testing.T) {
			for _, value := range []interface{}{"soon", 1.5, []int{1}} {
				claims := testutil.ValidClaims()
				claims["nbf"] = value

				_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
				require.ErrorIs(t, err, cwt.ErrWrongFieldType)

				var typeErr *cwt.FieldTypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, "nbf", typeErr.Claim)
			}
		})

		t.Run("overflow fails rather than clamps", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["exp"] = uint64(math.MaxUint64)

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			require.ErrorIs(t, err, cwt.ErrTimestampOutOfRange)

			var rangeErr *cwt.TimestampRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, "exp", rangeErr.Claim)
		})

		t.Run("underflow fails rather than clamps", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["nbf"] = int64(-62135596801)

			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			assert.ErrorIs(t, err, cwt.ErrTimestampOutOfRange)
		})

		t.Run("not before after expiry decodes", func(t *testing.T) {
			claims := testutil.ValidClaims()
			claims["nbf"] = int64(1516239922)
			claims["exp"] = int64(1516239022)

			// window validity is the policy layer's call, not the decoder's
			_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))
			assert.NoError(t, err)
		})
	})

	t.Run("envelope errors wrap", func(t *testing.T) {
		claims := testutil.ValidClaims()
		vc := claims["vc"].(map[string]interface{})
		delete(vc, "type")

		_, err := cwt.Decode[covidpass.PublicCovidPass](marshalClaims(t, claims))

		var missingErr *credential.MissingFieldError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "type", missingErr.Field)
		assert.ErrorContains(t, err, `decode claim "vc"`)
	})

	t.Run("strictness options pass through", func(t *testing.T) {
		claims := testutil.ValidClaims()
		vc := claims["vc"].(map[string]interface{})
		vc["version"] = "0.9.0"

		_, err := cwt.Decode[covidpass.PublicCovidPass](
			marshalClaims(t, claims), credential.WithExpectedVersion("1.0.0"))
		assert.ErrorIs(t, err, credential.ErrVersionMismatch)
	})
}

func TestDecodeClaims(t *testing.T) {
	data := marshalClaims(t, testutil.ValidClaims())

	claims, err := cwt.DecodeClaims(data)
	require.NoError(t, err)

	assert.Equal(t, did.Web{Domain: "example.nz"}, claims.Issuer)
	assert.Equal(t, "PublicCovidPass", claims.Credential.CredentialType())
	assert.NotEmpty(t, claims.Credential.Subject)
	assert.Equal(t, data, claims.Raw())

	var subject covidpass.PublicCovidPass
	require.NoError(t, cbor.Unmarshal(claims.Credential.Subject, &subject))
	assert.Equal(t, "Doe", subject.FamilyName)
}
