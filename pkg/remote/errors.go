package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iamkit/iamkit/pkg/frame"
)

// ErrUnknownService is returned when a service name is not registered.
// The check happens before any network call.
var ErrUnknownService = errors.New("unknown service")

// MissingCredentialError reports an incomplete credential mapping. It is a
// configuration error, raised before any network call and distinct from an
// authentication rejection.
type MissingCredentialError struct {
	Key string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential key %q", e.Key)
}

// AuthError reports that the remote service rejected the supplied
// credentials. It is raised after exactly one round-trip; there is no
// retry.
type AuthError struct {
	Service string
	Status  int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected by %q (status %d)", e.Service, e.Status)
}

// AmbiguousVersionError reports a non-default query over data that holds
// several versions of the same (model, scenario). The server cannot
// disambiguate in this mode, so the query fails instead of silently
// picking one version.
type AmbiguousVersionError struct {
	Keys []frame.Key
}

func (e *AmbiguousVersionError) Error() string {
	names := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		names[i] = k.String()
	}
	return fmt.Sprintf("multiple versions for %s; non-default queries cannot disambiguate",
		strings.Join(names, ", "))
}

// StatusError reports an unexpected HTTP status from the catalogue
// service.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalogue request %s returned status %d", e.Endpoint, e.Status)
}
