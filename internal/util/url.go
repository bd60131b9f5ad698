package util

import (
	"net/url"
	"strings"
)

// IsRedirectSafe reports whether redirectURL stays on this site: a local
// path, or an http(s) URL on the host of baseURL. An empty URL is safe.
func IsRedirectSafe(redirectURL, baseURL string) bool {
	switch {
	case redirectURL == "":
		return true
	case strings.ContainsAny(redirectURL, "\r\n"):
		return false
	case strings.HasPrefix(redirectURL, "/"):
		// browsers read "//host" and "/\host" as another host
		return !strings.HasPrefix(redirectURL, "//") && !strings.Contains(redirectURL, `\`)
	}

	u, err := url.Parse(redirectURL)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return true
	}
	base, err := url.Parse(baseURL)
	return err == nil && u.Host == base.Host
}

// LoginRedirect returns loginURL with returnTo in its redirect parameter.
// An unsafe returnTo is dropped.
func LoginRedirect(loginURL, returnTo, baseURL string) string {
	if returnTo == "" || !IsRedirectSafe(returnTo, baseURL) {
		return loginURL
	}
	u, err := url.Parse(loginURL)
	if err != nil {
		return loginURL
	}
	q := u.Query()
	q.Set("redirect", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}
