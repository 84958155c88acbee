package httpserver

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
)

// upstream is one backend service and how public paths map onto it:
// apiPrefix is always stripped and mount is prepended.
type upstream struct {
	name   string
	target string
	mount  string
}

// transport is shared by every upstream so idle connections are pooled
// per backend host.
var transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:          200,
	MaxIdleConnsPerHost:   50,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

func (u upstream) handler() (echo.HandlerFunc, error) {
	target, err := url.Parse(u.target)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("%s upstream url %q: invalid", u.name, u.target)
	}

	p := httputil.NewSingleHostReverseProxy(target)
	p.Transport = transport
	p.FlushInterval = 100 * time.Millisecond

	direct := p.Director
	p.Director = func(req *http.Request) {
		host, proto := req.Host, forwardedProto(req)
		req.URL.Path = rewritePath(req.URL.Path, apiPrefix, u.mount)
		if req.URL.RawPath != "" {
			req.URL.RawPath = rewritePath(req.URL.RawPath, apiPrefix, u.mount)
		}
		direct(req)
		req.Header.Set("X-Forwarded-Proto", proto)
		if req.Header.Get("X-Forwarded-Host") == "" && host != "" {
			req.Header.Set("X-Forwarded-Host", host)
		}
	}
	p.ErrorHandler = u.unavailable

	return func(c echo.Context) error {
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}

// unavailable answers 502 in the shared error body when the backend cannot
// be reached.
func (u upstream) unavailable(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("proxy_error", "upstream", u.name, "path", r.URL.Path, "error", err)

	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(httperr.Body{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusBadGateway,
		Error:     httperr.CodeBadGateway,
		Message:   u.name + " service unavailable",
		Path:      r.URL.Path,
	})
}

func forwardedProto(req *http.Request) string {
	if xf := req.Header.Get("X-Forwarded-Proto"); xf != "" {
		return xf
	}
	if req.TLS != nil {
		return "https"
	}
	return "http"
}

func rewritePath(path, stripPrefix, addPrefix string) string {
	return addPrefix + strings.TrimPrefix(path, stripPrefix)
}
