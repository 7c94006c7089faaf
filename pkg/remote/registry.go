package remote

import "fmt"

// Service describes one remote scenario catalogue.
type Service struct {
	// Name is the internal identifier used to connect.
	Name string
	// Alias is the public display name; CurrentConnection reports it.
	// Falls back to Name when empty.
	Alias string
	// URL is the base URL of the catalogue API.
	URL string
	// AuthURL is the base URL of the authentication endpoint. Falls back
	// to URL when empty.
	AuthURL string
	// Anonymous marks services that permit unauthenticated access.
	Anonymous bool
}

func (s Service) alias() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

func (s Service) authURL() string {
	if s.AuthURL != "" {
		return s.AuthURL
	}
	return s.URL
}

// Registry is an order-stable set of registered services.
type Registry struct {
	services []Service
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register adds or replaces a service by name.
func (r *Registry) Register(s Service) {
	for i, existing := range r.services {
		if existing.Name == s.Name {
			r.services[i] = s
			return
		}
	}
	r.services = append(r.services, s)
}

// Lookup resolves a service by name or alias.
func (r *Registry) Lookup(name string) (Service, bool) {
	for _, s := range r.services {
		if s.Name == name || s.Alias == name {
			return s, true
		}
	}
	return Service{}, false
}

// Names returns the registered service names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.services))
	for i, s := range r.services {
		out[i] = s.Name
	}
	return out
}

// defaultRegistry holds the built-in public scenario explorer services.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(Service{
		Name:      "iamc15",
		Alias:     "IAMC 1.5C Scenario Explorer",
		URL:       "https://db1.ene.iiasa.ac.at/iamc15-api/rest/v2.1",
		AuthURL:   "https://db1.ene.iiasa.ac.at/EneAuth/config/v1",
		Anonymous: true,
	})
	r.Register(Service{
		Name:    "ngfs",
		Alias:   "NGFS Scenario Explorer",
		URL:     "https://db1.ene.iiasa.ac.at/ngfs-api/rest/v2.1",
		AuthURL: "https://db1.ene.iiasa.ac.at/EneAuth/config/v1",
	})
	return r
}()

// DefaultRegistry returns the registry of built-in public services. The
// returned registry is shared; Register on it affects subsequent
// connections that do not supply their own registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// ValidConnections returns the names of the registered services.
func ValidConnections() []string { return defaultRegistry.Names() }

// lookupService resolves a name against the given registry (default when
// nil), failing with ErrUnknownService before any network activity.
func lookupService(r *Registry, name string) (Service, error) {
	if r == nil {
		r = defaultRegistry
	}
	s, ok := r.Lookup(name)
	if !ok {
		return Service{}, fmt.Errorf("%w: %q (valid connections: %v)", ErrUnknownService, name, r.Names())
	}
	return s, nil
}
