/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pass

import (
	"errors"
	"fmt"
	"sync"

	"github.com/trustbloc/logutil-go/pkg/log"
	"go.uber.org/zap"
)

var logger = log.New("pass-registry")

// ErrUnknownType is returned when no decoder is registered for a
// credential type tag.
var ErrUnknownType = errors.New("unknown pass type")

// UnknownTypeError reports the credential type tag that no registered
// subject schema claims.
type UnknownTypeError struct {
	CredentialType string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown pass type %q", e.CredentialType)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// Registry maps credential type tags to subject decoders. It supports
// deployments where pass types are registered at runtime rather than
// known at build time. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]DecodeFunc),
	}
}

// Register adds a subject decoder for the given credential type tag,
// replacing any decoder previously registered for it.
func (r *Registry) Register(credentialType string, decode DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decoders[credentialType]; exists {
		logger.Warn("replacing registered pass type decoder",
			zap.String("credentialType", credentialType))
	}

	r.decoders[credentialType] = decode
}

// Decode dispatches the raw credentialSubject bytes to the decoder
// registered for the given credential type tag.
func (r *Registry) Decode(credentialType string, data []byte) (Pass, error) {
	r.mu.RLock()
	decode, ok := r.decoders[credentialType]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownTypeError{CredentialType: credentialType}
	}

	return decode(data)
}
