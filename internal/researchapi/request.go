package researchapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	// Longest response body preview written to debug logs.
	maxBodyLogLength = 300
)

// getJSON makes a GET request against the API and decodes the body into target.
// When rawURL is absolute it is used as is (pagination links), otherwise it is
// joined with APIURL.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(rawURL), nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return c.do(endpoint, req, target)
}

// postJSON sends body as JSON and decodes the answer into target when it is not nil.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)

	return c.do(endpoint, req, target)
}

func (c *Client) do(endpoint string, req *http.Request, target any) error {
	start := time.Now()
	err := c.request(req, target)
	c.observe(endpoint, err, time.Since(start))

	return err
}

func (c *Client) request(req *http.Request, target any) error {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newTransportError(err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return newTransportError(err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return newTransportError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug("bad response from api",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(data), maxBodyLogLength)),
		)
		return newStatusError(resp.StatusCode, data)
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Content-Type", contentType)

	return req
}

func (c *Client) resolve(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	return strings.TrimRight(c.APIURL, "/") + rawURL
}

func (c *Client) observe(endpoint string, err error, elapsed time.Duration) {
	if c.Observer == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Observer.ObserveRequest(endpoint, outcome, elapsed)
}
