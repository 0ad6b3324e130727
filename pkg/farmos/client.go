package farmos

import (
	"context"
	"time"
)

// Client is the full farmOS API client surface.
type Client interface {
	ResourceClients
	InfoClient

	// Logout revokes the current tokens and clears instance state.
	Logout(ctx context.Context) error
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Assets() AssetsClient
	Logs() LogsClient
	Terms() TermsClient
	Vocabularies() VocabulariesClient
	Areas() AreasClient
}

// InfoClient provides access to farm information endpoints.
type InfoClient interface {
	// GetInfo fetches /farm.json: farm name, url, and authenticated user.
	GetInfo(ctx context.Context) (*FarmInfo, error)
}

// AssetsClient operates on farm_asset records.
type AssetsClient interface {
	Get(ctx context.Context, id ID) (*Asset, error)
	List(ctx context.Context, params *QueryParams) (*PageResponse[Asset], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Asset, error)
	Create(ctx context.Context, asset *Asset) (*WriteResult, error)
	Update(ctx context.Context, id ID, asset *Asset) (*WriteResult, error)
	Delete(ctx context.Context, id ID) error
}

// LogsClient operates on log records.
type LogsClient interface {
	Get(ctx context.Context, id ID) (*Log, error)
	// GetByIDs fetches logs in sequential batches of MaxIDsPerRequest.
	GetByIDs(ctx context.Context, ids []ID) ([]Log, error)
	List(ctx context.Context, params *QueryParams) (*PageResponse[Log], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Log, error)
	Create(ctx context.Context, log *Log) (*WriteResult, error)
	Update(ctx context.Context, id ID, log *Log) (*WriteResult, error)
	// Send creates the log when it has no ID and updates it otherwise.
	Send(ctx context.Context, log *Log) (*WriteResult, error)
	Delete(ctx context.Context, id ID) error
}

// TermsClient operates on taxonomy_term records.
type TermsClient interface {
	Get(ctx context.Context, tid ID) (*Term, error)
	List(ctx context.Context, params *QueryParams) (*PageResponse[Term], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Term, error)
	Create(ctx context.Context, term *Term) (*WriteResult, error)
	Update(ctx context.Context, tid ID, term *Term) (*WriteResult, error)
}

// VocabulariesClient operates on taxonomy_vocabulary records.
type VocabulariesClient interface {
	List(ctx context.Context) ([]Vocabulary, error)
	GetByMachineName(ctx context.Context, machineName string) (*Vocabulary, error)
}

// AreasClient operates on taxonomy terms in the farm_areas vocabulary.
// Every operation resolves the farm_areas vocabulary id first; resolution
// goes through the client cache.
type AreasClient interface {
	Get(ctx context.Context, tid ID) (*Area, error)
	List(ctx context.Context, params *QueryParams) (*PageResponse[Area], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Area, error)
	Create(ctx context.Context, area *Area) (*WriteResult, error)
	Update(ctx context.Context, tid ID, area *Area) (*WriteResult, error)
	Delete(ctx context.Context, tid ID) error
}

// Logger is the structured logging interface the client calls into.
// Nothing is logged unless a Logger is configured.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a farmos.Client.
//
// # Authentication precedence
//
//  1. AccessToken: used directly as a static Bearer token.
//  2. Username/Password: OAuth2 resource-owner-password grant against
//     {Hostname}/oauth2/token using ClientID/ClientSecret. The farmOS
//     default client id is "farm" with an empty secret; ClientSecret
//     defaults to the empty string, never to "absent".
//  3. RefreshToken: lets the OAuth2 manager renew the access token
//     without re-sending the password.
//  4. No credentials: requests are sent without authentication and will
//     fail on anything the server protects.
type Config struct {
	// Hostname is the farmOS base URL, e.g. "https://farm.example.com".
	// A missing scheme is normalized to https and a trailing slash is
	// trimmed by farmclient.New.
	Hostname string

	// ClientID is the OAuth2 client id. Defaults to "farm".
	ClientID string
	// ClientSecret is the OAuth2 client secret. Defaults to "".
	ClientSecret string
	// Username for the password grant.
	Username string
	// Password for the password grant.
	Password string
	// AccessToken, if set, is used directly as a Bearer token.
	AccessToken string
	// RefreshToken lets the token manager renew the access token.
	RefreshToken string
	// Scope requested during the password grant. Defaults to "user_access".
	Scope string

	// HTTPTimeout is the per-request timeout. Context deadlines passed to
	// client methods take precedence.
	HTTPTimeout time.Duration
	// RetryMax is the maximum number of retries for transient failures
	// (>=500, 429, connection errors). Zero disables retries, preserving
	// fail-fast error propagation.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug enables HTTP request/response logging when Logger is set.
	Debug bool
	// Logger is the optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Cache configures the client-side lookup cache (vocabulary ids).
	// Nil selects the in-memory backend; CacheTypeNone disables caching
	// so area calls look the vocabulary up on every request.
	Cache *CacheConfig
}
