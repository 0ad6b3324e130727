//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/farmhand-io/farmos-client/pkg/farmclient"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests against a live
// farmOS instance.
type TestConfig struct {
	Host     string
	Username string
	Password string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Host:     os.Getenv("FARM_TEST_HOST"),
		Username: os.Getenv("FARM_TEST_USERNAME"),
		Password: os.Getenv("FARM_TEST_PASSWORD"),
		Verbose:  os.Getenv("FARM_TEST_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Host == "" {
		t.Skip("FARM_TEST_HOST not set, skipping integration test")
	}

	if config.Username == "" || config.Password == "" {
		t.Skip("FARM_TEST_USERNAME/FARM_TEST_PASSWORD not set, skipping integration test")
	}
}

// NewTestClient logs in to the configured farmOS instance
func NewTestClient(t *testing.T, config *TestConfig) farmos.Client {
	t.Helper()

	ctx := context.Background()

	client, err := farmclient.NewWithPassword(ctx, config.Host, config.Username, config.Password)
	require.NoError(t, err, "Failed to create farmOS client")

	return client
}

// GenerateTestName creates a unique name for test records
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupAsset deletes a test asset, ignoring errors
func CleanupAsset(client farmos.Client, id farmos.ID) {
	_ = client.Assets().Delete(context.Background(), id)
}

// CleanupLog deletes a test log, ignoring errors
func CleanupLog(client farmos.Client, id farmos.ID) {
	_ = client.Logs().Delete(context.Background(), id)
}
