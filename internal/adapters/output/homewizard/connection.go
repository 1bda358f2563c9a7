package homewizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const statusOK = "ok"

// Connection executes request descriptors against one HomeWizard. Cacheable
// requests are answered from the ResponseCache while fresh, and concurrent
// identical cacheable requests share a single round trip.
type Connection struct {
	baseURL   string
	redacted  string
	transport ports.Transport
	cache     *ResponseCache
	inflight  singleflight.Group
	logger    zerolog.Logger
}

type Option func(*Connection)

func WithCache(cache *ResponseCache) Option {
	return func(c *Connection) { c.cache = cache }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Connection) { c.logger = logger }
}

// NewConnection builds a connection for baseURL, which already contains the
// password path segment (see model.Config.BaseURL).
func NewConnection(baseURL string, transport ports.Transport, opts ...Option) *Connection {
	c := &Connection{
		baseURL:   baseURL,
		redacted:  redactBase(baseURL),
		transport: transport,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewResponseCache(nil)
	}
	return c
}

var _ ports.Connection = (*Connection)(nil)

func (c *Connection) Cache() *ResponseCache {
	return c.cache
}

// Execute performs req and returns its payload: the "response" member when
// req.Unwrap is set and the member exists, the whole document otherwise.
func (c *Connection) Execute(ctx context.Context, req model.Request) (json.RawMessage, error) {
	path := req.Path()
	body, err := c.body(ctx, req, path)
	if err != nil {
		return nil, err
	}

	env, err := c.envelope(body, path)
	if err != nil {
		return nil, err
	}

	if req.Unwrap {
		if resp, ok := env["response"]; ok {
			return resp, nil
		}
	}
	return json.RawMessage(body), nil
}

func (c *Connection) body(ctx context.Context, req model.Request, path string) (string, error) {
	fullURL := c.baseURL + path
	if !req.Cacheable() {
		return c.roundTrip(ctx, req.Method, path)
	}

	if body, ok := c.cache.Fresh(fullURL, req.MaxAge); ok {
		c.logger.Debug().Str("method", string(req.Method)).Str("path", path).Msg("using cached response")
		return body, nil
	}

	// The shared call outlives any single caller; it is bounded by the
	// transport timeouts instead. Each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(string(req.Method)+" "+fullURL, func() (any, error) {
		body, err := c.roundTrip(shared, req.Method, path)
		if err != nil {
			return "", err
		}
		// Only bodies that pass validation are cached.
		if _, err := c.envelope(body, path); err != nil {
			return "", err
		}
		c.cache.Put(fullURL, body)
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &model.TransportError{Method: string(req.Method), URL: c.redacted + path, Err: ctx.Err()}
	}
}

func (c *Connection) roundTrip(ctx context.Context, method model.Method, path string) (string, error) {
	c.logger.Debug().Str("method", string(method)).Str("path", path).Msg("performing request")

	body, err := c.transport.Do(ctx, method, c.baseURL+path)
	if err != nil {
		var te *model.TransportError
		if errors.As(err, &te) {
			return "", err
		}
		return "", &model.TransportError{Method: string(method), URL: c.redacted + path, Err: err}
	}
	return body, nil
}

// envelope parses body and checks the device status marker.
func (c *Connection) envelope(body, path string) (map[string]json.RawMessage, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, &model.ProtocolError{URL: c.redacted + path, Reason: "malformed JSON", Payload: body, Err: err}
	}

	var status string
	if raw, ok := env["status"]; ok {
		_ = json.Unmarshal(raw, &status)
	}
	if status != statusOK {
		return nil, &model.ProtocolError{URL: c.redacted + path, Reason: "device status not ok", Payload: body}
	}
	return env, nil
}

// redactBase masks the password segment so URLs can be logged.
func redactBase(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Path == "" || u.Path == "/" {
		return base
	}
	u.Path = ""
	return u.String() + "/***"
}
