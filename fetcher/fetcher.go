// Package fetcher performs HTTP GETs against scrape targets with a
// Chrome-shaped TLS fingerprint, per-project adaptive rate limiting, and
// proxy rotation.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"

	"github.com/use-agent/ragforge/models"
)

// Request describes one page fetch.
type Request struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration // zero uses Fetcher's default
}

// Result is the outcome of a successful fetch.
type Result struct {
	URL        string
	FinalURL   string
	Body       string
	Status     int
	UsedProxy  string
	Title      string
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1, computed once so every dial reuses it.
var chromeH1Spec utls.ClientHelloSpec

func init() {
	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
	if err != nil {
		return
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

const defaultTimeout = 15 * time.Second
const maxBodyBytes = 10 << 20

// Fetcher performs single-URL fetches with a realistic TLS fingerprint. It
// is safe for concurrent use; timeouts are enforced per-request via context.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher whose default client dials directly; a proxied
// attempt goes through FetchVia's proxy argument instead.
func New() *Fetcher {
	return &Fetcher{client: newClient(nil)}
}

func newClient(proxyURL *url.URL) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialThrough(ctx, dialer, proxyURL, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetcher: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	if proxyURL != nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("fetcher: too many redirects")
			}
			return nil
		},
	}
}

// dialThrough dials addr directly, or through a SOCKS5/HTTP proxy when one
// is configured. HTTP proxies are handled by the transport's Proxy field
// for non-TLS legs, so here we only special-case SOCKS5.
func dialThrough(ctx context.Context, dialer *net.Dialer, proxyURL *url.URL, network, addr string) (net.Conn, error) {
	if proxyURL == nil || proxyURL.Scheme != "socks5" {
		return dialer.DialContext(ctx, network, addr)
	}
	return dialSOCKS5(ctx, dialer, proxyURL, network, addr)
}

// dialSOCKS5 performs a minimal unauthenticated/user-pass SOCKS5 CONNECT
// handshake, avoiding a dependency the pack doesn't otherwise exercise.
func dialSOCKS5(ctx context.Context, dialer *net.Dialer, proxyURL *url.URL, network, addr string) (net.Conn, error) {
	conn, err := dialer.DialContext(ctx, network, proxyURL.Host)
	if err != nil {
		return nil, err
	}
	if err := socks5Handshake(conn, proxyURL, addr); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func socks5Handshake(conn net.Conn, proxyURL *url.URL, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	methods := []byte{0x00}
	if proxyURL.User != nil {
		methods = []byte{0x02}
	}
	if _, err := conn.Write(append([]byte{0x05, byte(len(methods))}, methods...)); err != nil {
		return err
	}
	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return err
	}
	if resp[0] != 0x05 {
		return fmt.Errorf("fetcher: not a socks5 proxy")
	}
	if resp[1] == 0x02 {
		user := proxyURL.User.Username()
		pass, _ := proxyURL.User.Password()
		req := []byte{0x01, byte(len(user))}
		req = append(req, user...)
		req = append(req, byte(len(pass)))
		req = append(req, pass...)
		if _, err := conn.Write(req); err != nil {
			return err
		}
		authResp := make([]byte, 2)
		if _, err := io.ReadFull(conn, authResp); err != nil {
			return err
		}
		if authResp[1] != 0x00 {
			return fmt.Errorf("fetcher: socks5 auth rejected")
		}
	} else if resp[1] != 0x00 {
		return fmt.Errorf("fetcher: socks5 no acceptable auth method")
	}

	req := []byte{0x05, 0x01, 0x00, 0x03, byte(len(host))}
	req = append(req, host...)
	req = append(req, byte(port>>8), byte(port&0xff))
	if _, err := conn.Write(req); err != nil {
		return err
	}
	connResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connResp); err != nil {
		return err
	}
	if connResp[1] != 0x00 {
		return fmt.Errorf("fetcher: socks5 connect failed, code %d", connResp[1])
	}
	switch connResp[3] {
	case 0x01:
		if _, err := io.ReadFull(conn, make([]byte, 4+2)); err != nil {
			return err
		}
	case 0x03:
		l := make([]byte, 1)
		if _, err := io.ReadFull(conn, l); err != nil {
			return err
		}
		if _, err := io.ReadFull(conn, make([]byte, int(l[0])+2)); err != nil {
			return err
		}
	case 0x04:
		if _, err := io.ReadFull(conn, make([]byte, 16+2)); err != nil {
			return err
		}
	}
	return nil
}

// Outcome wraps the raw HTTP status and any Retry-After hint alongside a
// FetchVia error, so the caller can drive rate-limiter/proxy-rotator policy
// without re-parsing response headers itself.
type Outcome struct {
	Status     int
	RetryAfter time.Duration
}

// FetchVia performs one fetch attempt through the given proxy (nil for a
// direct connection), returning the raw HTTP status even on 4xx/5xx so the
// caller can apply backoff/retry policy.
func (f *Fetcher) FetchVia(ctx context.Context, req *Request, proxy *url.URL) (*Result, Outcome, *models.PipelineError) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := f.client
	if proxy != nil {
		client = newClient(proxy)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, Outcome{}, models.NewPipelineError("fetch", models.ErrCodeInvalidInput, "build request", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	httpReq.Header.Set("Accept-Encoding", "identity")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, Outcome{}, models.NewPipelineError("fetch", models.ErrCodeTimeout, req.URL, err)
		}
		return nil, Outcome{}, models.NewPipelineError("fetch", models.ErrCodeNavigation, req.URL, err)
	}
	defer resp.Body.Close()

	outcome := Outcome{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		outcome.RetryAfter = time.Duration(RetryAfterSeconds(resp.Header.Get("Retry-After"))) * time.Second
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, outcome, models.NewPipelineError("fetch", models.ErrCodeNavigation, "read body", err)
	}

	if resp.StatusCode >= 400 {
		return nil, outcome, models.NewPipelineError("fetch", models.ErrCodeNavigation,
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	bodyStr := string(body)
	result := &Result{
		URL:      req.URL,
		FinalURL: resp.Request.URL.String(),
		Body:     bodyStr,
		Status:   resp.StatusCode,
		Title:    extractTitle(bodyStr),
	}
	if proxy != nil {
		result.UsedProxy = proxy.Host
	}
	return result, outcome, nil
}

// RetryAfterSeconds parses a Retry-After header value expressed in seconds.
// Returns 0 if absent or not numeric (HTTP-date forms are not produced by
// the targets this fetcher talks to).
func RetryAfterSeconds(header string) int {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	n, err := strconv.Atoi(header)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func extractTitle(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}
