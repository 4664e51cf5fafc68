// Package config provides configuration loading and management for the search server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-search/internal/telemetry"
)

// EnvPrefix is the prefix of the environment variables read by the server
const EnvPrefix = "THV_SEARCH"

const (
	// BackendBleve is the in-process full-text backend
	BackendBleve = "bleve"

	// BackendMeilisearch is the Meilisearch search engine backend
	BackendMeilisearch = "meilisearch"

	// BackendPostgres is the PostgreSQL pattern matching backend
	BackendPostgres = "postgres"
)

const (
	// AuthModeAnonymous serves every request as an anonymous principal
	AuthModeAnonymous = "anonymous"

	// AuthModeJWT requires HMAC signed bearer tokens
	AuthModeJWT = "jwt"
)

const (
	// DefaultCacheSize is the default number of queries kept in the exclusion cache
	DefaultCacheSize = 256

	// DefaultRolesClaim is the token claim holding the principal roles
	DefaultRolesClaim = "roles"

	// DefaultAdminRole is the role that marks a principal as admin
	DefaultAdminRole = "admin"

	// DefaultMeilisearchTimeout bounds every Meilisearch request
	DefaultMeilisearchTimeout = 10 * time.Second
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Search SearchConfig `yaml:"search"`

	// Exclusions maps a pattern to the entity types it hides from global search
	Exclusions map[string][]string `yaml:"exclusions,omitempty"`

	// RoleExclusions are applied per request depending on the principal
	RoleExclusions []RoleExclusionConfig `yaml:"roleExclusions,omitempty"`

	// Entities lists the searchable entity types, in result order
	Entities []EntityConfig `yaml:"entities"`

	Bleve       *BleveConfig       `yaml:"bleve,omitempty"`
	Meilisearch *MeilisearchConfig `yaml:"meilisearch,omitempty"`
	Database    *DatabaseConfig    `yaml:"database,omitempty"`
	Auth        *AuthConfig        `yaml:"auth,omitempty"`
	Telemetry   *telemetry.Config  `yaml:"telemetry,omitempty"`
}

// SearchConfig selects the full-text backend and how results are assembled
type SearchConfig struct {
	// Backend is one of bleve, meilisearch or postgres. Defaults to bleve.
	Backend string `yaml:"backend,omitempty"`

	// ResultLimit overrides the per entity type result limit
	ResultLimit int `yaml:"resultLimit,omitempty"`

	// ApplyLimit overrides the backend default for bounding queries
	ApplyLimit *bool `yaml:"applyLimit,omitempty"`

	// CheckTypeName overrides the backend default for checking exclusions
	// against the entity source as well as its ID
	CheckTypeName *bool `yaml:"checkTypeName,omitempty"`

	// CacheSize is the number of queries kept in the exclusion cache, 0 disables it
	CacheSize *int `yaml:"cacheSize,omitempty"`
}

// RoleExclusionConfig defines an exclusion that depends on the principal
type RoleExclusionConfig struct {
	Pattern  string   `yaml:"pattern"`
	Entities []string `yaml:"entities"`

	// NonAdmins applies the rule to authenticated principals that are not admins
	NonAdmins bool `yaml:"nonAdmins,omitempty"`

	// Roles applies the rule to authenticated principals holding any of the roles
	Roles []string `yaml:"roles,omitempty"`
}

// EntityConfig defines a searchable entity type and how its results are shown
type EntityConfig struct {
	// ID identifies the entity type in exclusion rules
	ID string `yaml:"id"`

	// PluralLabel names the result category
	PluralLabel string `yaml:"pluralLabel"`

	// GloballySearchable defaults to true
	GloballySearchable *bool `yaml:"globallySearchable,omitempty"`

	// Source is the bleve document type, Meilisearch index or database table.
	// Entities without a source have no full-text capability.
	Source string `yaml:"source,omitempty"`

	// IDField is the record identifier field or column. Defaults to "id".
	IDField string `yaml:"idField,omitempty"`

	TitleField   string   `yaml:"titleField"`
	URLTemplate  string   `yaml:"urlTemplate"`
	DetailFields []string `yaml:"detailFields,omitempty"`

	// SearchFields are the columns matched by the postgres backend
	SearchFields []string `yaml:"searchFields,omitempty"`

	Actions []ActionConfig `yaml:"actions,omitempty"`
}

// ActionConfig defines a link shown next to each result
type ActionConfig struct {
	Label       string `yaml:"label"`
	URLTemplate string `yaml:"urlTemplate"`
}

// BleveConfig defines the in-process index settings
type BleveConfig struct {
	// DocumentsFile is a JSON file of documents indexed at startup
	DocumentsFile string `yaml:"documentsFile,omitempty"`
}

// MeilisearchConfig defines Meilisearch connection settings
type MeilisearchConfig struct {
	// Host is the Meilisearch base URL
	Host string `yaml:"host"`

	// APIKeyFile is the path to a file containing the API key
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	// IndexPrefix is prepended to every entity source
	IndexPrefix string `yaml:"indexPrefix,omitempty"`

	// Timeout bounds every request (e.g., "5s")
	Timeout string `yaml:"timeout,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// AuthConfig defines how requests are mapped to principals
type AuthConfig struct {
	// Mode is anonymous or jwt. Defaults to anonymous.
	Mode string `yaml:"mode,omitempty"`

	// Realm is reported in WWW-Authenticate challenges
	Realm string `yaml:"realm,omitempty"`

	// PublicPaths bypass authentication in addition to the health endpoints
	PublicPaths []string `yaml:"publicPaths,omitempty"`

	JWT *JWTConfig `yaml:"jwt,omitempty"`
}

// JWTConfig defines bearer token validation
type JWTConfig struct {
	// Issuer is the expected iss claim, not checked when empty
	Issuer string `yaml:"issuer,omitempty"`

	// Audience is the expected aud claim, not checked when empty
	Audience string `yaml:"audience,omitempty"`

	// SecretFile is the path to a file containing the HMAC secret
	SecretFile string `yaml:"secretFile,omitempty"`

	// RolesClaim names the claim holding the roles. Defaults to "roles".
	RolesClaim string `yaml:"rolesClaim,omitempty"`

	// AdminRole marks a principal as admin. Defaults to "admin".
	AdminRole string `yaml:"adminRole,omitempty"`
}

// readSecretFile reads a secret from path and trims surrounding whitespace
func readSecretFile(path, what string) (string, error) {
	// Use filepath.Clean to prevent path traversal attacks
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s from file %s: %w", what, path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from THV_SEARCH_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		return readSecretFile(d.PasswordFile, "password")
	}

	if envPassword := os.Getenv("THV_SEARCH_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or THV_SEARCH_DATABASE_PASSWORD environment variable",
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// GetAPIKey returns the Meilisearch API key from APIKeyFile, then from the
// THV_SEARCH_MEILISEARCH_API_KEY environment variable. An empty key is valid
// for instances running without a master key.
func (m *MeilisearchConfig) GetAPIKey() (string, error) {
	if m.APIKeyFile != "" {
		return readSecretFile(m.APIKeyFile, "api key")
	}
	return os.Getenv("THV_SEARCH_MEILISEARCH_API_KEY"), nil
}

// GetTimeout returns the request timeout, using the default if not specified
func (m *MeilisearchConfig) GetTimeout() time.Duration {
	if m.Timeout == "" {
		return DefaultMeilisearchTimeout
	}
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return DefaultMeilisearchTimeout
	}
	return d
}

// GetSecret returns the HMAC secret from SecretFile, then from the
// THV_SEARCH_JWT_SECRET environment variable
func (j *JWTConfig) GetSecret() ([]byte, error) {
	if j.SecretFile != "" {
		secret, err := readSecretFile(j.SecretFile, "jwt secret")
		if err != nil {
			return nil, err
		}
		if secret == "" {
			return nil, fmt.Errorf("jwt secret file %s is empty", j.SecretFile)
		}
		return []byte(secret), nil
	}

	if envSecret := os.Getenv("THV_SEARCH_JWT_SECRET"); envSecret != "" {
		return []byte(envSecret), nil
	}

	return nil, fmt.Errorf("no jwt secret configured: set secretFile or THV_SEARCH_JWT_SECRET environment variable")
}

// GetRolesClaim returns the roles claim name, using the default if not specified
func (j *JWTConfig) GetRolesClaim() string {
	if j.RolesClaim == "" {
		return DefaultRolesClaim
	}
	return j.RolesClaim
}

// GetAdminRole returns the admin role, using the default if not specified
func (j *JWTConfig) GetAdminRole() string {
	if j.AdminRole == "" {
		return DefaultAdminRole
	}
	return j.AdminRole
}

// GetMode returns the auth mode, using anonymous if not specified
func (a *AuthConfig) GetMode() string {
	if a == nil || a.Mode == "" {
		return AuthModeAnonymous
	}
	return a.Mode
}

// GetBackend returns the configured backend, using bleve if not specified
func (s *SearchConfig) GetBackend() string {
	if s.Backend == "" {
		return BackendBleve
	}
	return s.Backend
}

// GetCacheSize returns the exclusion cache size, using the default if not specified
func (s *SearchConfig) GetCacheSize() int {
	if s.CacheSize == nil {
		return DefaultCacheSize
	}
	return *s.CacheSize
}

// IsGloballySearchable reports whether the entity takes part in global search
func (e *EntityConfig) IsGloballySearchable() bool {
	return e.GloballySearchable == nil || *e.GloballySearchable
}

// GetIDField returns the identifier column, using "id" if not specified
func (e *EntityConfig) GetIDField() string {
	if e.IDField == "" {
		return "id"
	}
	return e.IDField
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.validateSearch(); err != nil {
		return err
	}

	if err := validateRoleExclusions(c.RoleExclusions); err != nil {
		return err
	}

	if err := c.validateEntities(); err != nil {
		return err
	}

	if err := validateAuth(c.Auth); err != nil {
		return err
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

// validateSearch validates the backend selection and its connection settings
func (c *Config) validateSearch() error {
	if c.Search.ResultLimit < 0 {
		return fmt.Errorf("search.resultLimit must not be negative, got %d", c.Search.ResultLimit)
	}
	if c.Search.CacheSize != nil && *c.Search.CacheSize < 0 {
		return fmt.Errorf("search.cacheSize must not be negative, got %d", *c.Search.CacheSize)
	}

	switch c.Search.GetBackend() {
	case BackendBleve:
		return nil
	case BackendMeilisearch:
		if c.Meilisearch == nil || c.Meilisearch.Host == "" {
			return fmt.Errorf("meilisearch.host is required when search.backend is %s", BackendMeilisearch)
		}
		if c.Meilisearch.Timeout != "" {
			if _, err := time.ParseDuration(c.Meilisearch.Timeout); err != nil {
				return fmt.Errorf("meilisearch.timeout must be a valid duration (e.g., '5s'): %w", err)
			}
		}
		return nil
	case BackendPostgres:
		if c.Database == nil {
			return fmt.Errorf("database configuration is required when search.backend is %s", BackendPostgres)
		}
		if c.Database.ConnMaxLifetime != "" {
			if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
				return fmt.Errorf("database.connMaxLifetime must be a valid duration (e.g., '30m', '1h'): %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("search.backend must be one of %s, %s or %s, got %s",
			BackendBleve, BackendMeilisearch, BackendPostgres, c.Search.Backend)
	}
}

// validateRoleExclusions checks that every rule names its target principals
func validateRoleExclusions(rules []RoleExclusionConfig) error {
	for i, rule := range rules {
		prefix := fmt.Sprintf("roleExclusions[%d] (%s)", i, rule.Pattern)

		if rule.Pattern == "" {
			return fmt.Errorf("roleExclusions[%d]: pattern is required", i)
		}
		if len(rule.Entities) == 0 {
			return fmt.Errorf("%s: at least one entity is required", prefix)
		}
		if !rule.NonAdmins && len(rule.Roles) == 0 {
			return fmt.Errorf("%s: one of nonAdmins or roles must be specified", prefix)
		}
	}
	return nil
}

// validateEntities validates each entity type configuration
func (c *Config) validateEntities() error {
	ids := make(map[string]bool)
	for i, e := range c.Entities {
		if e.ID == "" {
			return fmt.Errorf("entities[%d]: id is required", i)
		}
		if ids[e.ID] {
			return fmt.Errorf("entities[%d]: duplicate entity id '%s'", i, e.ID)
		}
		ids[e.ID] = true

		prefix := fmt.Sprintf("entities[%d] (%s)", i, e.ID)
		if e.PluralLabel == "" {
			return fmt.Errorf("%s: pluralLabel is required", prefix)
		}
		for j, action := range e.Actions {
			if action.Label == "" || action.URLTemplate == "" {
				return fmt.Errorf("%s: actions[%d] requires label and urlTemplate", prefix, j)
			}
		}
		if c.Search.GetBackend() == BackendPostgres && e.Source != "" && len(e.SearchFields) == 0 {
			return fmt.Errorf("%s: searchFields are required with the %s backend", prefix, BackendPostgres)
		}
	}
	return nil
}

// validateAuth validates the auth mode and its settings
func validateAuth(auth *AuthConfig) error {
	switch auth.GetMode() {
	case AuthModeAnonymous:
		return nil
	case AuthModeJWT:
		if auth.JWT == nil {
			return errors.New("auth.jwt is required when auth.mode is jwt")
		}
		return nil
	default:
		return fmt.Errorf("auth.mode must be either %s or %s, got %s", AuthModeAnonymous, AuthModeJWT, auth.Mode)
	}
}
