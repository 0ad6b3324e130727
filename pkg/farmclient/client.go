// Package farmclient provides the main entry point for creating farmOS
// API clients.
package farmclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmhand-io/farmos-client/internal/client"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// New creates a new farmOS API client. The hostname may be given with or
// without a scheme; https is assumed when it is missing.
func New(ctx context.Context, config *farmos.Config) (farmos.Client, error) {
	if config == nil {
		return nil, farmos.ErrConfigRequired
	}

	if config.Hostname == "" {
		return nil, farmos.ErrHostnameRequired
	}

	config.Hostname = NormalizeHostname(config.Hostname)

	farmClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating farmOS client: %w", err)
	}

	return farmClient, nil
}

// NormalizeHostname trims a trailing slash and defaults the scheme to
// https.
func NormalizeHostname(hostname string) string {
	hostname = strings.TrimSuffix(hostname, "/")
	if !strings.HasPrefix(hostname, "http://") && !strings.HasPrefix(hostname, "https://") {
		hostname = "https://" + hostname
	}

	return hostname
}

// NewWithHostname creates an unauthenticated client for public records.
func NewWithHostname(ctx context.Context, hostname string) (farmos.Client, error) {
	return New(ctx, &farmos.Config{
		Hostname: hostname,
	})
}

// NewWithToken creates a client with an already-issued access token.
func NewWithToken(ctx context.Context, hostname, token string) (farmos.Client, error) {
	return New(ctx, &farmos.Config{
		Hostname:    hostname,
		AccessToken: token,
	})
}

// NewWithPassword creates a client using the OAuth2 password grant.
func NewWithPassword(ctx context.Context, hostname, username, password string) (farmos.Client, error) {
	return New(ctx, &farmos.Config{
		Hostname: hostname,
		Username: username,
		Password: password,
	})
}

// NewWithClientCredentials creates a client using the client_credentials
// grant, for machine accounts with their own OAuth2 client.
func NewWithClientCredentials(ctx context.Context, hostname, clientID, clientSecret string) (farmos.Client, error) {
	return New(ctx, &farmos.Config{
		Hostname:     hostname,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
