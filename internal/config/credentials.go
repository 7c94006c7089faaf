// Package config manages the process-wide credential store for remote
// scenario catalogue services.
//
// Credentials live in a YAML file keyed by service name, with a "default"
// entry used when no per-service credentials exist. The file is read at
// connection-construction time only; there is no watching or reloading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvCredentialsPath overrides the credential file location.
const EnvCredentialsPath = "IAMKIT_CREDENTIALS"

// DefaultService is the store entry used when no per-service entry exists.
const DefaultService = "default"

// Entry is one stored username/password pair.
type Entry struct {
	Username string `koanf:"username" yaml:"username"`
	Password string `koanf:"password" yaml:"password"`
}

// complete reports whether both halves of the pair are present.
func (e Entry) complete() bool { return e.Username != "" && e.Password != "" }

// Store is the credential file, loaded into memory.
type Store struct {
	path    string
	entries map[string]Entry
}

// CredentialsPath resolves the credential file location: the
// IAMKIT_CREDENTIALS environment variable when set, otherwise
// <user-config-dir>/iamkit/credentials.yaml.
func CredentialsPath() (string, error) {
	if p := os.Getenv(EnvCredentialsPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot locate user config directory: %w", err)
	}
	return filepath.Join(dir, "iamkit", "credentials.yaml"), nil
}

// LoadStore reads the credential file at path (resolved via
// CredentialsPath when empty). A missing file yields an empty store, not
// an error.
func LoadStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = CredentialsPath()
		if err != nil {
			return nil, err
		}
	}
	s := &Store{path: path, entries: make(map[string]Entry)}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("config: cannot read credential file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: cannot parse credential file %s: %w", path, err)
	}
	if err := k.Unmarshal("", &s.entries); err != nil {
		return nil, fmt.Errorf("config: malformed credential file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Lookup returns the credentials for a service, falling back to the
// default entry. An entry with either half of the pair missing is a
// configuration error.
func (s *Store) Lookup(service string) (Entry, bool, error) {
	for _, name := range []string{service, DefaultService} {
		e, ok := s.entries[name]
		if !ok {
			continue
		}
		if !e.complete() {
			return Entry{}, false, fmt.Errorf("config: incomplete credentials for %q in %s", name, s.path)
		}
		return e, true, nil
	}
	return Entry{}, false, nil
}

// Set stores credentials for a service and writes the file with owner-only
// permissions.
func (s *Store) Set(service, username, password string) error {
	if service == "" {
		service = DefaultService
	}
	e := Entry{Username: username, Password: password}
	if !e.complete() {
		return fmt.Errorf("config: username and password are both required")
	}
	s.entries[service] = e

	out, err := yaml.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("config: cannot encode credential file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("config: cannot create credential directory: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0o600); err != nil {
		return fmt.Errorf("config: cannot write credential file %s: %w", s.path, err)
	}
	return nil
}
