package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations like the session
	// token fetch.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the default minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the default maximum backoff between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// OAuth2 defaults for farmOS.
const (
	// DefaultOAuthClientID is the OAuth2 client shipped with the farmOS
	// OAuth2 server module.
	DefaultOAuthClientID = "farm"

	// DefaultOAuthScope is the scope requested for API access.
	DefaultOAuthScope = "user_access"

	// TokenExpiryBuffer is subtracted from a token's lifetime so a token
	// about to expire is treated as expired before it is sent.
	TokenExpiryBuffer = 30 * time.Second
)

// Endpoint paths on a farmOS host.
const (
	OAuthTokenPath     = "/oauth2/token"
	OAuthRevokePath    = "/oauth2/revoke"
	OAuthAuthorizePath = "/oauth2/authorize"
	SessionTokenPath   = "/restws/session/token"
)

// Cache defaults.
const (
	// DefaultCacheSize is the default maximum number of cache entries.
	DefaultCacheSize = 100

	// DefaultVocabularyCacheTTL bounds how long a resolved vocabulary id
	// is reused before it is looked up again.
	DefaultVocabularyCacheTTL = 5 * time.Minute
)
