package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/farmhand-io/farmos-client/internal/auth"
	"github.com/farmhand-io/farmos-client/internal/client"
	"github.com/farmhand-io/farmos-client/pkg/farmclient"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a farmOS server",
		Long:  "Authenticate against a farmOS server and store the tokens in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get hostname
			hostname := viper.GetString("host")
			if hostname == "" {
				hostname = loadConfig().Host
			}

			if hostname == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("farmOS host: ")
				hostname, _ = reader.ReadString('\n')
				hostname = strings.TrimSpace(hostname)
			}

			if hostname == "" {
				return ErrHostRequired
			}

			hostname = farmclient.NormalizeHostname(hostname)

			ctx := context.Background()

			// A token flag skips the password grant entirely
			if token := viper.GetString("token"); token != "" {
				return loginWithToken(ctx, hostname, token)
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if password == "" {
				fmt.Print("Password: ")
				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(bytePassword)
				fmt.Println()
			}

			config := &farmos.Config{
				Hostname: hostname,
				Username: username,
				Password: password,
			}

			farmClient, err := client.New(ctx, config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Force the password grant now so bad credentials fail here
			if _, err := farmClient.GetToken(ctx); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			info, err := farmClient.GetInfo(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect to farmOS: %w", err)
			}

			if err := persistTokens(hostname, farmClient.GetTokenManager()); err != nil {
				return err
			}

			if err := saveLoginConfig(hostname, username); err != nil {
				return err
			}

			fmt.Printf("Successfully logged in to %s\n", hostname)
			if info.Name != "" {
				fmt.Printf("Farm: %s\n", info.Name)
			}
			if info.User.Name != "" {
				fmt.Printf("User: %s\n", info.User.Name)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")

	return cmd
}

// loginWithToken verifies a pre-issued token and stores it.
func loginWithToken(ctx context.Context, hostname, token string) error {
	farmClient, err := farmclient.NewWithToken(ctx, hostname, token)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	info, err := farmClient.GetInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to farmOS: %w", err)
	}

	store, err := NewKeyringStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	if err := store.UpdateTokens(hostname, token, time.Time{}, ""); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	if err := saveLoginConfig(hostname, ""); err != nil {
		return err
	}

	fmt.Printf("Successfully logged in to %s\n", hostname)
	if info.Name != "" {
		fmt.Printf("Farm: %s\n", info.Name)
	}

	return nil
}

// persistTokens stores the freshly granted tokens in the keyring.
func persistTokens(hostname string, tokenManager auth.TokenManager) error {
	oauthManager, ok := tokenManager.(*auth.OAuth2TokenManager)
	if !ok {
		return nil
	}

	current := oauthManager.Current()
	if current == nil {
		return nil
	}

	store, err := NewKeyringStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	err = store.UpdateTokens(hostname, current.AccessToken, current.ExpiresAt, current.RefreshToken)
	if err != nil {
		return fmt.Errorf("storing tokens: %w", err)
	}

	return nil
}

// saveLoginConfig records the host and username so later commands do not
// need the --host flag.
func saveLoginConfig(hostname, username string) error {
	config := loadConfig()
	config.Host = hostname
	if username != "" {
		config.Username = username
	}

	if err := saveConfig(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the farmOS server",
		Long:  "Revoke the stored tokens and remove them from the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			hostname := viper.GetString("host")
			if hostname == "" {
				hostname = loadConfig().Host
			}

			if hostname == "" {
				return ErrHostRequired
			}

			hostname = farmclient.NormalizeHostname(hostname)

			store, err := NewKeyringStore()
			if err != nil {
				return fmt.Errorf("opening credential store: %w", err)
			}

			if _, err := store.Load(hostname); err != nil {
				if errors.Is(err, ErrNoStoredCredentials) {
					fmt.Println("Not logged in")
					return nil
				}

				return fmt.Errorf("loading credentials: %w", err)
			}

			ctx := context.Background()

			// Revoke server-side; fall back to a local clear when the
			// server is unreachable.
			farmClient, err := createClient(ctx)
			if err == nil {
				err = farmClient.Logout(ctx)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not revoke tokens: %v\n", err)
				if err := store.Clear(hostname); err != nil {
					return fmt.Errorf("clearing credentials: %w", err)
				}
			}

			fmt.Println("Successfully logged out")
			return nil
		},
	}
}
