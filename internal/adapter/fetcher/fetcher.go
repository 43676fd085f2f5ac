// Package fetcher downloads pages for checks and classifies failed attempts.
package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 5
	DefaultUserAgent    = "page-analyzer/1.0 (+https://github.com/vadimbarashkov/page-analyzer)"
	DefaultMaxBodySize  = 5 << 20
)

// ErrTooManyRedirects is returned when a redirect chain exceeds the configured limit.
var ErrTooManyRedirects = errors.New("too many redirects")

// Kind classifies why a fetch did not produce a usable response.
type Kind int

const (
	KindOther Kind = iota
	KindConnectionFailed
	KindClientError
	KindServerError
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConnectionFailed:
		return "connection_failed"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Error is returned by Fetch for every failed attempt. StatusCode is set for
// KindClientError and KindServerError.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed (%s): status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Response is a page fetched with a status code below 400. Body is UTF-8.
type Response struct {
	StatusCode int
	Body       []byte
}

// Config controls the outbound HTTP client.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	MaxBodySize  int64
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	return c
}

// Fetcher issues GET requests with a bounded timeout and redirect chain.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

func New(cfg Config) *Fetcher {
	cfg = cfg.withDefaults()

	maxRedirects := cfg.MaxRedirects

	return &Fetcher{
		client: &http.Client{
			Transport: newHTTPTransport(),
			Timeout:   cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}
}

// Fetch downloads url. Any failure, including a response status of 400 or
// above, is returned as *Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &Error{Kind: KindOther, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &Error{Kind: KindServerError, StatusCode: resp.StatusCode}
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, &Error{Kind: KindClientError, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &Error{Kind: classify(err), Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       toUTF8(raw, resp.Header.Get("Content-Type"), int64(len(raw)) >= f.maxBodySize),
	}, nil
}

// toUTF8 decodes body using the charset from contentType or the document's
// own <meta> declaration. An undeclared body that is already valid UTF-8 is
// kept as is, and so is a body that cannot be decoded. A truncated body may
// end in a partial rune.
func toUTF8(body []byte, contentType string, truncated bool) []byte {
	if len(body) == 0 {
		return body
	}

	check := body
	if truncated {
		check = trimPartialRune(body)
	}

	enc, _, certain := charset.DetermineEncoding(body, contentType)
	if !certain && utf8.Valid(check) {
		return body
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}

	return decoded
}

func trimPartialRune(b []byte) []byte {
	i := len(b) - 1
	for i > 0 && i > len(b)-utf8.UTFMax && !utf8.RuneStart(b[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRune(b[i:]) {
		return b[:i]
	}

	return b
}

func classify(err error) Kind {
	var (
		netErr     net.Error
		dnsErr     *net.DNSError
		opErr      *net.OpError
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)

	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return KindOther
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindOther
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.As(err, &recordErr),
		errors.As(err, &verifyErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return KindConnectionFailed
	default:
		return KindOther
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
