// Package farmclient provides the primary entry point for constructing a
// farmOS API client that implements the farmos.Client interface.
//
// It layers hostname normalization, HTTP transport, OAuth2 and session
// token handling on top of the resource interfaces and types defined in
// the farmos package. Most applications should import farmclient to build
// a client, then use the returned farmos.Client to access resource
// clients, for example Assets(), Logs(), Areas().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/farmhand-io/farmos-client/pkg/farmclient"
//	  "github.com/farmhand-io/farmos-client/pkg/farmos"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Password grant against the farm's built-in OAuth2 client.
//	  cli, err := farmclient.New(ctx, &farmos.Config{
//	    Hostname: "farm.example.com",
//	    Username: "farmer",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = farmclient.NewWithToken(ctx, "farm.example.com", "eyJhbGciOi...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the farmos.Client interface
//	  logs, err := cli.Logs().List(ctx, farmos.NewQueryParams().WithParam("type", "farm_observation"))
//	  if err != nil { log.Fatal(err) }
//	  _ = logs
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithHostname,
// NewWithToken, NewWithPassword, and NewWithClientCredentials that wrap
// New with the appropriate configuration.
package farmclient
