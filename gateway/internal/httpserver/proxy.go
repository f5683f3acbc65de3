package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garden_shop/pkg/logging"
)

// newProxy forwards to target with stripPrefix removed from the path.
// Upstream failures are answered with 502 and an {"error": ...} body so
// storefront clients always get a readable message.
func newProxy(target, stripPrefix, name string, timeout time.Duration) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	origDirector := p.Director
	p.Director = func(req *http.Request) {
		originalHost := req.Host
		proto := "http"
		if req.TLS != nil {
			proto = "https"
		} else if xf := req.Header.Get("X-Forwarded-Proto"); xf != "" {
			proto = xf
		}

		origDirector(req)

		if stripPrefix != "" {
			req.URL.Path = stripped(req.URL.Path, stripPrefix)
			if req.URL.RawPath != "" {
				req.URL.RawPath = stripped(req.URL.RawPath, stripPrefix)
			}
		}
		req.Header.Set("X-Forwarded-Proto", proto)
		if req.Header.Get("X-Forwarded-Host") == "" && originalHost != "" {
			req.Header.Set("X-Forwarded-Host", originalHost)
		}
	}

	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.FromContext(r.Context()).Error("upstream_error", "upstream", name, "error", err)
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": name + " service is unavailable, please try again"})
	}

	return func(c echo.Context) error {
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}

func stripped(path, prefix string) string {
	out := strings.TrimPrefix(path, prefix)
	if out == "" || out[0] != '/' {
		out = "/" + out
	}
	return out
}
