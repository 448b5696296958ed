package reddit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/proxy"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// userAgentTransport sets the User-Agent header on every outbound request.
type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// NewHTTPClient builds the outbound client shared by every upstream call.
//
// A socks5:// proxy_url routes traffic through that proxy; other schemes are ignored.
// When reg is non-nil, request counts and latencies are registered on it.
func NewHTTPClient(cfg shared.UpstreamConfig, reg prometheus.Registerer) (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport

	if cfg.ProxyURL != "" {
		transport, err := socks5Transport(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		if transport != nil {
			base = transport
		}
	}

	var rt http.RoundTripper = &userAgentTransport{userAgent: cfg.UserAgent, next: base}
	if reg != nil {
		instrumented, err := instrumentUpstream(reg, rt)
		if err != nil {
			return nil, err
		}
		rt = instrumented
	}

	return &http.Client{Timeout: cfg.Timeout, Transport: rt}, nil
}

func socks5Transport(proxyURL string) (*http.Transport, error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: proxy_url: %v", shared.ErrInvalidConfig, err)
	}
	if parsed.Scheme != "socks5" {
		return nil, nil
	}

	var auth *proxy.Auth
	if parsed.User != nil {
		password, _ := parsed.User.Password()
		auth = &proxy.Auth{User: parsed.User.Username(), Password: password}
	}

	dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("%w: proxy_url: %v", shared.ErrInvalidConfig, err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return transport, nil
}

func instrumentUpstream(reg prometheus.Registerer, next http.RoundTripper) (http.RoundTripper, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reddit_proxy_upstream_requests_total",
		Help: "Requests sent to the Reddit API, by status code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reddit_proxy_upstream_request_duration_seconds",
		Help:    "Latency of requests sent to the Reddit API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	for _, c := range []prometheus.Collector{requests, duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register upstream metrics: %w", err)
		}
	}

	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(duration, next)), nil
}
