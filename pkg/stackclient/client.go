package stackclient

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/stackla-go/internal/auth"
	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/internal/resources"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// Stack hands out resources bound to one tenant. It is safe to share; the
// resources it returns are not.
type Stack struct {
	config    stackla.Config
	transport *stacklahttp.Client
	registry  map[stackla.Kind]resources.Constructor
}

// New validates config and creates a Stack.
func New(config *stackla.Config) (*Stack, error) {
	if config == nil {
		return nil, stackla.ErrConfigRequired
	}

	if strings.TrimSpace(config.Host) == "" {
		return nil, stackla.ErrHostRequired
	}

	if config.Stack == "" {
		return nil, stackla.ErrStackRequired
	}

	if config.Credentials == nil {
		return nil, stackla.ErrCredentialsRequired
	}

	normalized := *config
	normalized.Host = NormalizeHost(config.Host)

	opts := []stacklahttp.Option{
		stacklahttp.WithDebug(config.Debug),
	}

	if config.Logger != nil {
		opts = append(opts, stacklahttp.WithLogger(config.Logger))
	}

	if config.UserAgent != "" {
		opts = append(opts, stacklahttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, stacklahttp.WithTimeout(config.HTTPTimeout))
	}

	return &Stack{
		config:    normalized,
		transport: stacklahttp.NewClient(normalized.Host, normalized.Stack, normalized.Credentials, opts...),
		registry:  resources.Registry(),
	}, nil
}

// NormalizeHost adds "https://" when host has no scheme and trims trailing
// slashes.
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return host
}

// Host returns the normalised API host.
func (s *Stack) Host() string {
	return s.config.Host
}

// Name returns the stack identifier.
func (s *Stack) Name() string {
	return s.config.Stack
}

// Credentials returns the shared credentials.
func (s *Stack) Credentials() *stackla.Credentials {
	return s.config.Credentials
}

// Kinds lists the resource kinds Instance accepts, sorted.
func (s *Stack) Kinds() []stackla.Kind {
	kinds := make([]stackla.Kind, 0, len(s.registry))
	for kind := range s.registry {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})

	return kinds
}

// Instance creates a resource of the named kind. Names are case-insensitive
// and may be plural. Without an id the resource is empty. With an id and
// fetch set it is loaded from the server; a failed load returns the resource
// together with the error so that its Errors() can be inspected. With an id
// and no fetch the resource is a placeholder.
func (s *Stack) Instance(ctx context.Context, kindName string, id string, fetch bool) (stackla.Resource, error) {
	kind := stackla.ParseKind(kindName)

	constructor, ok := s.registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", stackla.ErrUnknownKind, kindName)
	}

	resource := constructor(s.transport, id)
	if id == "" || !fetch {
		return resource, nil
	}

	return resource, resource.FetchByID(ctx, id)
}

// Tag returns an empty tag.
func (s *Stack) Tag() stackla.Tag {
	return resources.NewTag(s.transport, "")
}

// Filter returns an empty filter.
func (s *Stack) Filter() stackla.Filter {
	return resources.NewFilter(s.transport, "")
}

// Term returns an empty term.
func (s *Stack) Term() stackla.Term {
	return resources.NewTerm(s.transport, "")
}

// Tile returns an empty tile.
func (s *Stack) Tile() stackla.Tile {
	return resources.NewTile(s.transport, "")
}

// Widget returns an empty widget.
func (s *Stack) Widget() stackla.Widget {
	return resources.NewWidget(s.transport, "")
}

func (s *Stack) flow(opts ...auth.FlowOption) (*auth.Flow, error) {
	return auth.NewFlow(&auth.OAuth2Config{
		Host:         s.config.Host,
		Stack:        s.config.Stack,
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		RedirectURL:  s.config.RedirectURL,
	}, s.config.Credentials, opts...)
}

// AccessURI returns the authorization URL for the configured OAuth2 client
// and the state the callback must echo.
func (s *Stack) AccessURI() (string, string, error) {
	flow, err := s.flow()
	if err != nil {
		return "", "", err
	}

	uri, state := flow.AccessURI()

	return uri, state, nil
}

// GenerateToken exchanges an authorization code for an access token and
// stores it in the shared credentials.
func (s *Stack) GenerateToken(ctx context.Context, code string) (string, error) {
	flow, err := s.flow()
	if err != nil {
		return "", err
	}

	token, err := flow.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// ExchangeSession trades the current access token for an OEM session id.
func (s *Stack) ExchangeSession(ctx context.Context) (string, error) {
	var opts []stacklahttp.Option
	if s.config.Logger != nil {
		opts = append(opts, stacklahttp.WithLogger(s.config.Logger))
	}

	flow, err := s.flow(auth.WithTransportOptions(opts...))
	if err != nil {
		return "", err
	}

	return flow.ExchangeSession(ctx, s.config.Credentials.Token())
}
