/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credential decodes the W3C verifiable-credential envelope
// nested inside an NZCP CWT payload: the JSON-LD context list, the
// two-element type array, the version string and the pass-type-specific
// credential subject.
package credential

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/trustbloc/nzcp-go/pkg/pass"
)

const (
	// BaseContext is the W3C credentials context every conforming pass
	// lists first in @context.
	BaseContext = "https://www.w3.org/2018/credentials/v1"
	// VerifiableCredentialType is the required first element of the
	// type array.
	VerifiableCredentialType = "VerifiableCredential"
)

// Opt configures envelope decoding strictness.
type Opt func(*options)

type options struct {
	strictContext   bool
	expectedVersion string
}

// WithStrictContext requires the first @context element to equal
// BaseContext, as the NZCP grammar mandates. The default is lenient
// decoding for forward compatibility.
func WithStrictContext() Opt {
	return func(o *options) {
		o.strictContext = true
	}
}

// WithExpectedVersion requires the version field to equal the given
// value (the NZCP grammar mandates "1.0.0"). The default accepts any
// version string.
func WithExpectedVersion(version string) Opt {
	return func(o *options) {
		o.expectedVersion = version
	}
}

// Envelope is a decoded verifiable credential with the subject left as
// raw CBOR bytes, for dispatch through a pass.Registry.
type Envelope struct {
	Context []string
	Type    [2]string
	Version string
	Subject cbor.RawMessage
}

// CredentialType returns the pass type tag, i.e. the second element of
// the type array.
func (e *Envelope) CredentialType() string {
	return e.Type[1]
}

// VerifiableCredential is a decoded verifiable credential with the
// subject decoded as a concrete pass schema.
type VerifiableCredential[S pass.Pass] struct {
	Context []string
	Type    [2]string
	Version string
	Subject S
}

type rawEnvelope struct {
	Context cbor.RawMessage `cbor:"@context"`
	Type    cbor.RawMessage `cbor:"type"`
	Version cbor.RawMessage `cbor:"version"`
	Subject cbor.RawMessage `cbor:"credentialSubject"`
}

// DecodeEnvelope decodes the vc claim bytes, validating the wrapper
// fields and leaving the credentialSubject undecoded. Unknown map keys
// are ignored.
func DecodeEnvelope(data []byte, opts ...Opt) (*Envelope, error) {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	var raw rawEnvelope
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEnvelope, err.Error())
	}

	context, err := decodeContext(raw.Context, o)
	if err != nil {
		return nil, err
	}

	credentialType, err := decodeType(raw.Type)
	if err != nil {
		return nil, err
	}

	version, err := decodeVersion(raw.Version, o)
	if err != nil {
		return nil, err
	}

	if raw.Subject == nil {
		return nil, &MissingFieldError{Field: "credentialSubject"}
	}

	return &Envelope{
		Context: context,
		Type:    credentialType,
		Version: version,
		Subject: raw.Subject,
	}, nil
}

// Decode decodes the vc claim bytes with the credentialSubject decoded
// as S. The type array's second element must equal S's credential type;
// a mismatch fails at the subject-dispatch step rather than decoding a
// subject of the wrong schema.
func Decode[S pass.Pass](data []byte, opts ...Opt) (*VerifiableCredential[S], error) {
	envelope, err := DecodeEnvelope(data, opts...)
	if err != nil {
		return nil, err
	}

	var subject S

	if want := subject.CredentialType(); envelope.Type[1] != want {
		return nil, &SubjectDecodeError{Err: &TypeMismatchError{Want: want, Got: envelope.Type[1]}}
	}

	if err := cbor.Unmarshal(envelope.Subject, &subject); err != nil {
		return nil, &SubjectDecodeError{Err: err}
	}

	return &VerifiableCredential[S]{
		Context: envelope.Context,
		Type:    envelope.Type,
		Version: envelope.Version,
		Subject: subject,
	}, nil
}

func decodeContext(raw cbor.RawMessage, o *options) ([]string, error) {
	if raw == nil {
		return nil, &MissingFieldError{Field: "@context"}
	}

	var context []string
	if err := cbor.Unmarshal(raw, &context); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWrongContextShape, err.Error())
	}

	if len(context) == 0 {
		return nil, ErrWrongContextShape
	}

	if o.strictContext && context[0] != BaseContext {
		return nil, &ContextMismatchError{Got: context[0]}
	}

	return context, nil
}

func decodeType(raw cbor.RawMessage) ([2]string, error) {
	if raw == nil {
		return [2]string{}, &MissingFieldError{Field: "type"}
	}

	var elements []string
	if err := cbor.Unmarshal(raw, &elements); err != nil {
		return [2]string{}, &FieldTypeError{Field: "type", Err: err}
	}

	if len(elements) != 2 {
		return [2]string{}, &WrongTypeArityError{Got: len(elements)}
	}

	if elements[0] != VerifiableCredentialType {
		return [2]string{}, &TypeMismatchError{Want: VerifiableCredentialType, Got: elements[0]}
	}

	return [2]string{elements[0], elements[1]}, nil
}

func decodeVersion(raw cbor.RawMessage, o *options) (string, error) {
	if raw == nil {
		return "", &MissingFieldError{Field: "version"}
	}

	var version string
	if err := cbor.Unmarshal(raw, &version); err != nil {
		return "", &FieldTypeError{Field: "version", Err: err}
	}

	if o.expectedVersion != "" && version != o.expectedVersion {
		return "", &VersionMismatchError{Want: o.expectedVersion, Got: version}
	}

	return version, nil
}
