// Package stackla provides types, interfaces, and helpers for working with the
// Stackla content-syndication REST API.
//
// # Overview
//
// The stackla package defines the shared configuration (Config, Credentials),
// the error taxonomy returned by the transport (APIError and the local
// sentinel errors), and the interfaces implemented by every remote resource
// (Resource, Tag, Filter, Term, Tile, Widget). Concrete implementations live
// behind the stackclient package, which wires configuration, transport and
// authentication. Most consumers import stackclient to obtain a Stack and then
// interact with the resource interfaces exposed here.
//
// Getting a resource
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/stackla-go/pkg/stackclient"
//	  "github.com/fivetwenty-io/stackla-go/pkg/stackla"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  stack, err := stackclient.New(&stackla.Config{
//	    Host:        "https://api.stackla.com/api",
//	    Stack:       "mystack",
//	    Credentials: stackla.NewAPIKeyCredentials("https://api.stackla.com/api", "key"),
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  tag := stack.Tag()
//	  tag.SetTagName("summer")
//	  tag.SetType(stackla.TagTypeContent)
//	  if problems := tag.Validate(); len(problems) > 0 { log.Fatal(problems) }
//	  if err := tag.Create(ctx); err != nil { log.Fatal(err, tag.Errors()) }
//	}
//
// # Partial updates
//
// Every setter marks its attribute dirty. Update sends only the dirty
// attributes. Objects built from an identifier alone are placeholders and
// refuse an unforced Update with ErrStaleObject.
//
// # Errors
//
// HTTP failures are reported as *APIError values that match ErrBadRequest,
// ErrUnauthorized, ErrRateLimitExceeded, ErrNotFound or ErrServerError through
// errors.Is. When the response carries field errors they are also recorded on
// the resource that issued the call and are available through Errors().
package stackla
