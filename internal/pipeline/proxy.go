package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
)

// NewProxyFunc creates a transport proxy function for remote inputs.
// If no proxy URLs are provided, falls back to environment variables.
func NewProxyFunc(httpProxy, httpsProxy string) (func(*http.Request) (*url.URL, error), error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment, nil
	}

	httpURL, err := parseProxy("http_proxy", httpProxy)
	if err != nil {
		return nil, err
	}
	httpsURL, err := parseProxy("https_proxy", httpsProxy)
	if err != nil {
		return nil, err
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsURL != nil {
			return httpsURL, nil
		}
		if httpURL != nil {
			return httpURL, nil
		}
		return http.ProxyFromEnvironment(req)
	}, nil
}

func parseProxy(name, raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fetch.%s: invalid proxy URL %q", name, raw)
	}
	return u, nil
}
