package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farmhand-io/farmos-client/internal/auth"
	"github.com/farmhand-io/farmos-client/internal/client"
	"github.com/farmhand-io/farmos-client/internal/constants"
	"github.com/farmhand-io/farmos-client/pkg/farmclient"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
	"github.com/spf13/viper"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrHostRequired       = errors.New("farmOS host is required, use --host or 'farm login'")
	ErrNotLoggedIn        = errors.New("not logged in, run 'farm login' first")
	ErrNameRequired       = errors.New("name is required")
	ErrTypeRequired       = errors.New("type is required")
	ErrVocabularyRequired = errors.New("vocabulary is required")
	ErrInvalidRecordID    = errors.New("invalid record id")
)

// createClient builds a farmOS client from the CLI configuration. A
// --token flag takes precedence over stored credentials.
func createClient(ctx context.Context) (farmos.Client, error) {
	hostname := viper.GetString("host")
	if hostname == "" {
		return nil, ErrHostRequired
	}

	hostname = farmclient.NormalizeHostname(hostname)

	if token := viper.GetString("token"); token != "" {
		return farmclient.NewWithToken(ctx, hostname, token)
	}

	store, err := NewKeyringStore()
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	creds, err := store.Load(hostname)
	if err != nil {
		if errors.Is(err, ErrNoStoredCredentials) {
			return nil, ErrNotLoggedIn
		}

		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	oauthConfig := &auth.OAuth2Config{
		TokenURL:     hostname + constants.OAuthTokenPath,
		RevokeURL:    hostname + constants.OAuthRevokePath,
		ClientID:     constants.DefaultOAuthClientID,
		ClientSecret: "",
		Scope:        constants.DefaultOAuthScope,
		Username:     viper.GetString("username"),
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,

		AccessTokenExpiresAt: creds.ExpiresAt,
	}

	tokenManager := auth.NewPersistingTokenManager(oauthConfig, store, hostname)

	config := &farmos.Config{
		Hostname: hostname,
		Debug:    viper.GetBool("verbose"),
	}

	return client.NewWithTokenManager(config, tokenManager)
}

// parseID parses a command line argument as a farmOS record id.
func parseID(arg string) (farmos.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordID, arg)
	}

	return farmos.ID(n), nil
}

// formatTimestamp renders a Unix timestamp for table output.
func formatTimestamp(ts int64) string {
	if ts == 0 {
		return ""
	}

	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

// yesNo renders a Drupal flag for table output. An unset flag reads as no.
func yesNo(flag *farmos.Flag) string {
	if flag != nil && bool(*flag) {
		return "yes"
	}

	return "no"
}
