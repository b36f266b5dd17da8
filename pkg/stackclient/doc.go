// Package stackclient is the entry point of the SDK. It validates a
// stackla.Config, builds the shared transport and hands out resources by kind.
//
//	stack, err := stackclient.New(&stackla.Config{
//	  Host:        "api.stackla.com/api",
//	  Stack:       "mystack",
//	  Credentials: stackla.NewAPIKeyCredentials("api.stackla.com/api", "key"),
//	})
//	if err != nil {
//	  return err
//	}
//
//	resource, err := stack.Instance(ctx, "widget", "42", true)
package stackclient
