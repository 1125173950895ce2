package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/betsbrasileiras/internal/cache"
)

// DefaultUserAgent identifies every request the pipeline makes.
const DefaultUserAgent = "BetsBrasileiras/1.0 (+https://github.com/guibranco/BetsBrasileiras)"

// FetchError reports a transport failure or a non-success status for URL.
// StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client performs synchronous GETs. There is no retry: a failed request is
// returned to the caller as a *FetchError.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Optional on-disk cache. When set, requests are conditional and a 304
	// is answered from the stored body.
	Cache *cache.Store
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// AllowedContentTypes, when non-empty, lists accepted media type prefixes.
	AllowedContentTypes []string
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// GetBytes downloads rawURL and returns the body.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, _, err := c.get(ctx, rawURL)
	return body, err
}

// GetText downloads rawURL and decodes the body to UTF-8 using the charset
// declared by the response (or sniffed from the content).
func (c *Client) GetText(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !declaresCharset(contentType) && utf8.Valid(body) {
		return string(body), nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body), nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("decode body: %w", err)}
	}
	return string(decoded), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	var etag, lastMod string
	if c.Cache != nil {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("new request: %w", err)}
	}
	if !isHTTPScheme(req.URL) {
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusNotModified && c.Cache != nil {
		cached, err := c.Cache.LoadBody(ctx, rawURL)
		if err != nil {
			return nil, "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("not modified but cache miss: %w", err)}
		}
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && contentType == "" {
			contentType = meta.ContentType
		}
		return cached, contentType, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	if !c.contentTypeAllowed(contentType) {
		return nil, "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("unsupported content type: %s", contentType)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if c.Cache != nil {
		_ = c.Cache.Save(ctx, rawURL, contentType, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), body)
	}
	return body, contentType, nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func (c *Client) contentTypeAllowed(ct string) bool {
	if len(c.AllowedContentTypes) == 0 {
		return true
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	for _, allowed := range c.AllowedContentTypes {
		if strings.HasPrefix(ct, strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

func declaresCharset(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	return err == nil && params["charset"] != ""
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
