package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"sigil/internal/domain"
)

// Client talks to a relay server over HTTP with CBOR bodies.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a relay client for the given base URL. A nil httpClient
// selects http.DefaultClient.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// RegisterPreKeyBundle publishes our bundle, overwriting any previous one.
func (c *Client) RegisterPreKeyBundle(ctx context.Context, bundle domain.PreKeyBundle) error {
	return c.post(ctx, "/register", bundle, nil)
}

// FetchPreKeyBundle downloads the peer's bundle. The relay consumes one
// one-time pre-key on its side per fetch.
func (c *Client) FetchPreKeyBundle(
	ctx context.Context,
	username domain.Username,
) (domain.PreKeyBundle, error) {
	var out domain.PreKeyBundle
	if err := c.get(ctx, "/prekey/"+url.PathEscape(username.String()), &out); err != nil {
		return domain.PreKeyBundle{}, err
	}
	return out, nil
}

// SendMessage posts a sealed envelope to the recipient's queue.
func (c *Client) SendMessage(ctx context.Context, envelope domain.Envelope) error {
	return c.post(ctx, "/msg/"+url.PathEscape(envelope.To.String()), envelope, nil)
}

// FetchMessages returns up to limit queued envelopes without removing them.
func (c *Client) FetchMessages(
	ctx context.Context,
	username domain.Username,
	limit int,
) ([]domain.Envelope, error) {
	path := "/msg/" + url.PathEscape(username.String())
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.Envelope
	if err := c.get(ctx, path, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

// AckMessages drops the first count queued envelopes after processing.
func (c *Client) AckMessages(ctx context.Context, username domain.Username, count int) error {
	return c.post(ctx, "/msg/"+url.PathEscape(username.String())+"/ack", ackRequest{Count: count}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := cbor.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeCBOR)
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", req.Method, req.URL, resp.Status)
	}
	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return cbor.Unmarshal(body, out)
}

// Compile-time assertion that Client implements domain.RelayClient.
var _ domain.RelayClient = (*Client)(nil)
