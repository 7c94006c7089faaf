package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/iamkit/iamkit/pkg/table"
)

// Connection is an authenticated session against one scenario catalogue
// service. Discovery results (variables, regions, metadata columns) are
// cached lazily for the lifetime of the instance; there is no
// invalidation. Each instance owns its own token and cache, so separate
// connections stay independent.
//
// A connection is built for single-threaded use: every call is one
// blocking round-trip with no retry.
type Connection struct {
	service Service
	client  *http.Client
	logger  *slog.Logger
	session string
	token   string

	vars     []string
	regions  []byte
	metaCols []string
}

// Option configures Connect.
type Option func(*connectOptions)

type connectOptions struct {
	registry *Registry
	client   *http.Client
	logger   *slog.Logger
	credPath string
	creds    Credentials
	credsSet bool
	credsMap map[string]string
	mapGiven bool
}

// WithCredentials supplies an explicit username/password pair.
func WithCredentials(username, password string) Option {
	return func(o *connectOptions) {
		o.creds = Credentials{Username: username, Password: password}
		o.credsSet = true
	}
}

// WithCredentialMap supplies credentials as a mapping with required keys
// "username" and "password".
func WithCredentialMap(m map[string]string) Option {
	return func(o *connectOptions) {
		o.credsMap = m
		o.mapGiven = true
	}
}

// WithRegistry overrides the service registry (used by tests and private
// deployments).
func WithRegistry(r *Registry) Option {
	return func(o *connectOptions) { o.registry = r }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *connectOptions) { o.client = c }
}

// WithLogger attaches a logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *connectOptions) { o.logger = l }
}

// WithCredentialStore overrides the credential store file location.
func WithCredentialStore(path string) Option {
	return func(o *connectOptions) { o.credPath = path }
}

// Connect opens a session against a registered service. Configuration
// errors (unknown service, incomplete credential map) fail before any
// network call; rejected credentials fail with AuthError after one
// round-trip. With no credentials available, anonymous access is
// attempted.
func Connect(ctx context.Context, service string, opts ...Option) (*Connection, error) {
	o := connectOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	svc, err := lookupService(o.registry, service)
	if err != nil {
		return nil, err
	}

	creds := o.creds
	switch {
	case o.mapGiven:
		creds, err = CredentialsFromMap(o.credsMap)
		if err != nil {
			return nil, err
		}
	case !o.credsSet:
		creds, err = storedCredentials(o.credPath, svc.Name)
		if err != nil {
			return nil, err
		}
	}

	c := &Connection{
		service: svc,
		client:  o.client,
		logger:  o.logger,
		session: uuid.NewString(),
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	if creds.empty() {
		c.logger.Debug("connecting anonymously", "service", svc.Name, "session", c.session)
		return c, nil
	}

	if err := c.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	c.logger.Debug("connected", "service", svc.Name, "session", c.session)
	return c, nil
}

// authenticate performs the single login round-trip. A 401/403 response is
// an AuthError and terminal for this construction attempt.
func (c *Connection) authenticate(ctx context.Context, creds Credentials) error {
	body, err := json.Marshal(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return err
	}

	endpoint := c.service.authURL() + "/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.session)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: login request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Service: c.service.Name, Status: resp.StatusCode}
	default:
		return &StatusError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("remote: malformed login response: %w", err)
	}
	c.token = out.Token
	return nil
}

// get performs one catalogue request and returns the raw body.
func (c *Connection) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.service.URL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", c.session)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{Service: c.service.Name, Status: resp.StatusCode}
	default:
		return nil, &StatusError{Endpoint: path, Status: resp.StatusCode}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("remote: reading %s response: %w", path, err)
	}
	return buf.Bytes(), nil
}

func (c *Connection) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: malformed %s response: %w", path, err)
	}
	return nil
}

// CurrentConnection reports the public name of the bound service.
func (c *Connection) CurrentConnection() string { return c.service.alias() }

// ValidConnections returns the registered service names.
func (c *Connection) ValidConnections() []string { return ValidConnections() }

// Variables returns the deduplicated, sorted variable names known to the
// service. The result is discovered lazily and cached for the connection
// lifetime.
func (c *Connection) Variables(ctx context.Context) ([]string, error) {
	if c.vars == nil {
		var records []variableRecord
		if err := c.getJSON(ctx, "/variables", nil, &records); err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(records))
		vars := make([]string, 0, len(records))
		for _, r := range records {
			if !seen[r.Variable] {
				seen[r.Variable] = true
				vars = append(vars, r.Variable)
			}
		}
		sort.Strings(vars)
		c.vars = vars
	}
	return append([]string(nil), c.vars...), nil
}

// regionsPayload fetches and caches the raw regions payload.
func (c *Connection) regionsPayload(ctx context.Context) ([]byte, error) {
	if c.regions == nil {
		raw, err := c.get(ctx, "/regions", nil)
		if err != nil {
			return nil, err
		}
		c.regions = raw
	}
	return c.regions, nil
}

// Regions returns the sorted canonical region names.
func (c *Connection) Regions(ctx context.Context) ([]string, error) {
	raw, err := c.regionsPayload(ctx)
	if err != nil {
		return nil, err
	}
	t, err := ConvertRegionsPayload(raw, false)
	if err != nil {
		return nil, err
	}
	col, err := t.Column("region")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(col))
	for i, v := range col {
		names[i] = fmt.Sprint(v)
	}
	sort.Strings(names)
	return names, nil
}

// RegionSynonyms returns the region table with synonym expansion: columns
// {region, synonym}, one row per synonym and a null-synonym row for
// regions without any.
func (c *Connection) RegionSynonyms(ctx context.Context) (*table.Table, error) {
	raw, err := c.regionsPayload(ctx)
	if err != nil {
		return nil, err
	}
	return ConvertRegionsPayload(raw, true)
}

// MetaColumns returns the ordered names of the extra, server-defined
// metadata columns (everything beyond version and is_default).
func (c *Connection) MetaColumns(ctx context.Context) ([]string, error) {
	if c.metaCols == nil {
		var cols []string
		if err := c.getJSON(ctx, "/metadata/columns", nil, &cols); err != nil {
			return nil, err
		}
		c.metaCols = cols
	}
	return append([]string(nil), c.metaCols...), nil
}

// AvailableMetadata returns the extra metadata column names.
//
// Deprecated: use MetaColumns.
func (c *Connection) AvailableMetadata(ctx context.Context) ([]string, error) {
	return c.MetaColumns(ctx)
}

// fetchRuns retrieves the run index, optionally restricted to
// default-flagged runs.
func (c *Connection) fetchRuns(ctx context.Context, defaultOnly bool) (*table.Table, error) {
	metaCols, err := c.MetaColumns(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.get(ctx, "/runs", url.Values{"default_only": {strconv.FormatBool(defaultOnly)}})
	if err != nil {
		return nil, err
	}
	return convertRunsPayload(raw, metaCols)
}

// Index returns the {model, scenario, version[, is_default]} slice of the
// meta table. With defaultOnly, only default-flagged rows are returned and
// the redundant is_default column is dropped.
func (c *Connection) Index(ctx context.Context, defaultOnly bool) (*table.Table, error) {
	runs, err := c.fetchRuns(ctx, defaultOnly)
	if err != nil {
		return nil, err
	}
	if defaultOnly {
		return runs.Select("model", "scenario", "version")
	}
	return runs.Select("model", "scenario", "version", "is_default")
}

// Meta returns the full meta table including all extra metadata columns,
// with the same defaultOnly semantics as Index.
func (c *Connection) Meta(ctx context.Context, defaultOnly bool) (*table.Table, error) {
	runs, err := c.fetchRuns(ctx, defaultOnly)
	if err != nil {
		return nil, err
	}
	cols := runs.Columns()
	if defaultOnly {
		kept := make([]string, 0, len(cols)-1)
		for _, col := range cols {
			if col != "is_default" {
				kept = append(kept, col)
			}
		}
		return runs.Select(kept...)
	}
	return runs, nil
}

// Metadata returns the full meta table.
//
// Deprecated: use Meta.
func (c *Connection) Metadata(ctx context.Context, defaultOnly bool) (*table.Table, error) {
	return c.Meta(ctx, defaultOnly)
}
