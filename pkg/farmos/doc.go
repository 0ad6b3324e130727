// Package farmos provides types, interfaces, and helpers for working with
// the farmOS REST API.
//
// # Overview
//
// The farmos package defines the domain types (Asset, Log, Term, Area,
// Vocabulary) and the interfaces for resource-oriented clients. A concrete
// implementation is provided by the farmclient package, which wires
// configuration, transport, OAuth2 authentication, and the session (CSRF)
// token. Most consumers should import farmclient to construct a client and
// then interact with the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := farmclient.NewWithPassword(ctx, "https://farm.example.com", "user", "pass")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of animal assets
//	  assets, err := cli.Assets().List(ctx, farmos.NewQueryParams().WithParam("type", "animal"))
//	  if err != nil { log.Fatal(err) }
//	  _ = assets
//	}
//
// # Queries, pagination, and batching
//
// QueryParams expresses farmOS query strings, including bracket arrays
// (type[]=x) and indexed arrays (id[0]=1&id[1]=2). List endpoints return a
// PageResponse whose Last URL declares the final page; FetchAllPages and
// PageIterator walk every page sequentially with an explicit termination
// bound. FetchBatched splits large id sets into chunks of MaxIDsPerRequest
// to keep request URLs short.
//
// # Errors
//
// Failures surface unchanged to the caller, wrapped only with context.
// Non-2xx responses become *APIError; IsNotFound, IsUnauthorized, and
// IsForbidden classify them.
package farmos
