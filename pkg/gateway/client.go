package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	Host           string
	AnalyzeTimeout time.Duration
	// RequestTimeout bounds every call except analyze; zero leaves the
	// transport default.
	RequestTimeout time.Duration
	// RateLimit caps outbound requests per second; zero is unlimited.
	RateLimit float64
	UserAgent string
	Observer  Observer
	Logger    *logrus.Entry
}

// OptionsFromConfig maps the backend section of the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Host:           cfg.Backend.Host,
		AnalyzeTimeout: cfg.AnalyzeTimeoutDuration(),
		RequestTimeout: cfg.RequestTimeoutDuration(),
		RateLimit:      cfg.Backend.RateLimit,
		UserAgent:      cfg.Backend.UserAgent,
	}
}

// Client is the resty-backed Gateway. The underlying client keeps a cookie
// jar, so the backend session cookie is sent with every call.
type Client struct {
	http           *resty.Client
	limiter        *rate.Limiter
	analyzeTimeout time.Duration
	requestTimeout time.Duration
	observer       Observer
	logger         *logrus.Entry

	mu   sync.RWMutex
	host string
}

var _ Gateway = (*Client)(nil)

// New creates a Client.
func New(opts Options) *Client {
	if opts.Host == "" {
		opts.Host = config.DefaultHost
	}
	if opts.AnalyzeTimeout <= 0 {
		opts.AnalyzeTimeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	limit := rate.Inf
	burst := 0
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		burst = 1
	}

	httpClient := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}

	c := &Client{
		http:           httpClient,
		limiter:        rate.NewLimiter(limit, burst),
		analyzeTimeout: opts.AnalyzeTimeout,
		requestTimeout: opts.RequestTimeout,
		observer:       opts.Observer,
		logger:         opts.Logger,
	}
	c.SetHost(opts.Host)
	return c
}

// SetHost points the client at another backend. Used on config reload.
func (c *Client) SetHost(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = strings.TrimRight(host, "/")
	c.http.SetBaseURL(c.host)
}

// Host returns the current backend base URL.
func (c *Client) Host() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

// HTTPClient exposes the transport, e.g. for interception in tests.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}

// call describes one request.
type call struct {
	method   string
	endpoint string
	body     interface{}
	timeout  time.Duration
	prepare  func(*resty.Request)
}

// do executes a call and decodes a 2xx JSON body into out (if non-nil).
// Every failure comes back as a *errors.CellError.
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	timeout := cl.timeout
	if timeout == 0 {
		timeout = c.requestTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Transport(cl.endpoint, err)
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	if cl.prepare != nil {
		cl.prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.endpoint)
	elapsed := time.Since(start)

	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}

	var result error
	switch {
	case err != nil && ctx.Err() == context.DeadlineExceeded:
		result = errors.Timeout(cl.endpoint, timeout.String())
	case err != nil:
		result = errors.Transport(cl.endpoint, err)
	case resp.IsError():
		result = errors.Backend(cl.endpoint, status, decodeErrorBody(resp.Body()))
	case out != nil:
		if decErr := json.Unmarshal(resp.Body(), out); decErr != nil {
			result = errors.Decode(cl.endpoint, decErr)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": cl.endpoint,
		"status":   status,
		"duration": elapsed.Round(time.Millisecond),
	}).Debug("Backend call")
	if c.observer != nil {
		c.observer.ObserveCall(cl.endpoint, status, elapsed.Seconds(), result)
	}
	return result
}

// decodeErrorBody returns the JSON error body when there is one, else the text.
func decodeErrorBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, call{method: http.MethodGet, endpoint: endpoint}, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, call{method: http.MethodPost, endpoint: endpoint, body: body}, out)
}
