package bridge

// Generate client mocks for testing
//go:generate mockgen -source=client.go -package=mocks -destination=mocks/bridge_mock.go

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 60 * time.Second

	executePath = "/execute"

	// cap on how much of an unexpected body is echoed into an error
	maxErrorBody = 512
)

// Sender sends one command and blocks for its reply.
type Sender interface {
	Send(ctx context.Context, cmd Command) (*Response, error)
}

// Observer is told about every exchange, successful or not.
type Observer func(cmd Command, resp *Response, err error, elapsed time.Duration)

// Client talks to the automation proxy over HTTP.
type Client struct {
	baseURL     string
	application string
	timeout     time.Duration
	httpClient  *http.Client
	observers   []Observer
}

func NewClient() *Client {
	return &Client{
		baseURL:     DefaultProxyURL,
		application: DefaultApplication,
		timeout:     DefaultTimeout,
	}
}

func (c *Client) WithURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return c
}

func (c *Client) WithApplication(application string) *Client {
	c.application = strings.TrimSpace(application)
	return c
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

func (c *Client) WithObserver(o Observer) *Client {
	if o != nil {
		c.observers = append(c.observers, o)
	}
	return c
}

// Init validates the configuration and prepares the HTTP client.
func (c *Client) Init() (*Client, error) {
	if err := c.buildClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) buildClient() error {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid proxy URL %q", c.baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid proxy URL %q: scheme must be http or https", c.baseURL)
	}
	if c.application == "" {
		c.application = DefaultApplication
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.Timeout = c.timeout
	return nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Application() string {
	return c.application
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Send posts cmd to the proxy. A reply with a non-SUCCESS status is not an
// error here; only failures to get a reply at all are. Idempotent actions
// are retried once after a timeout.
func (c *Client) Send(ctx context.Context, cmd Command) (*Response, error) {
	if c.httpClient == nil {
		if err := c.buildClient(); err != nil {
			return nil, err
		}
	}
	if cmd.Application == "" || cmd.Application == DefaultApplication {
		cmd.Application = c.application
	}
	if cmd.ID == "" {
		cmd.ID = NewCommand(cmd.Action, nil).ID
	}
	if cmd.Options == nil {
		cmd.Options = Options{}
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.post(ctx, cmd)
	if err != nil && isTimeout(err) && IsIdempotent(cmd.Action) && ctx.Err() == nil {
		log.Debugf("Timeout calling %s, retrying once", cmd.Action)
		resp, err = c.post(ctx, cmd)
		if err != nil {
			err = fmt.Errorf("timeout after retry for %s: %w", cmd.Action, err)
		}
	}
	elapsed := time.Since(start)

	for _, o := range c.observers {
		o(cmd, resp, err, elapsed)
	}
	return resp, err
}

// Do sends action with options and turns a non-SUCCESS reply into a *StatusError.
func (c *Client) Do(ctx context.Context, action string, options Options) (*Response, error) {
	return Do(ctx, c, action, options)
}

// Do is Client.Do for any Sender.
func Do(ctx context.Context, s Sender, action string, options Options) (*Response, error) {
	resp, err := s.Send(ctx, NewCommand(action, options))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, &StatusError{
			Action:   action,
			Status:   resp.Status,
			Message:  resp.Failure(),
			Response: resp,
		}
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, cmd Command) (*Response, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("cannot encode command %s: %w", cmd.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+executePath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Action: cmd.Action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debugf("-> %s %s id=%s options=%s", cmd.Application, cmd.Action, cmd.ID, body)
	res, err := c.httpClient.Do(req)
	if err != nil {
		if isDialError(err) {
			return nil, &TransportError{Action: cmd.Action, Err: fmt.Errorf("%w: %v", ErrProxyUnreachable, err)}
		}
		return nil, &TransportError{Action: cmd.Action, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Action: cmd.Action, StatusCode: res.StatusCode, Err: err}
	}
	log.Debugf("<- %s HTTP %d %s", cmd.Action, res.StatusCode, truncate(raw))

	out := &Response{}
	decodeErr := json.Unmarshal(raw, out)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// the proxy reports command failures with an error status and a normal envelope
		if decodeErr == nil && out.Status != "" {
			return out, nil
		}
		return nil, &TransportError{Action: cmd.Action, StatusCode: res.StatusCode, Err: errors.New(truncate(raw))}
	}
	if decodeErr != nil {
		return nil, &TransportError{Action: cmd.Action, StatusCode: res.StatusCode, Err: fmt.Errorf("cannot decode reply: %w", decodeErr)}
	}
	return out, nil
}

// Probe performs a plain GET against the proxy base URL. Any HTTP reply,
// whatever its status, proves the proxy is listening.
func (c *Client) Probe(ctx context.Context) error {
	if c.httpClient == nil {
		if err := c.buildClient(); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProxyUnreachable, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func truncate(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
