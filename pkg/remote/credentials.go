package remote

import (
	"github.com/iamkit/iamkit/internal/config"
)

// Credentials is a complete username/password pair.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) empty() bool { return c.Username == "" && c.Password == "" }

// CredentialsFromMap builds credentials from a mapping with the required
// keys "username" and "password". A missing key fails with
// MissingCredentialError, distinct from an authentication rejection.
func CredentialsFromMap(m map[string]string) (Credentials, error) {
	user, ok := m["username"]
	if !ok {
		return Credentials{}, &MissingCredentialError{Key: "username"}
	}
	pw, ok := m["password"]
	if !ok {
		return Credentials{}, &MissingCredentialError{Key: "password"}
	}
	return Credentials{Username: user, Password: pw}, nil
}

// SetConfig persists process-wide default credentials. Connections built
// without explicit credentials pick them up at construction time.
func SetConfig(username, password string) error {
	store, err := config.LoadStore("")
	if err != nil {
		return err
	}
	return store.Set(config.DefaultService, username, password)
}

// storedCredentials looks up credentials for a service in the credential
// store at path ("" for the default location). Returns empty credentials
// when nothing is stored.
func storedCredentials(path, service string) (Credentials, error) {
	store, err := config.LoadStore(path)
	if err != nil {
		return Credentials{}, err
	}
	e, found, err := store.Lookup(service)
	if err != nil || !found {
		return Credentials{}, err
	}
	return Credentials{Username: e.Username, Password: e.Password}, nil
}
