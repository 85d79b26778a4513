package transport

import (
	"net/http"
)

// cookieWrap is the cookie-bearing channel: it attaches jar cookies (the renewal
// credential among them) to outgoing requests and records response cookies,
// including deletions, back into the jar. Client code never reads those cookies.
type cookieWrap struct {
	inner http.RoundTripper
	jar   http.CookieJar
}

// WrapWithCookieJar wraps inner so that cookies from jar are sent and updated on
// each request/response. A nil jar returns inner unchanged.
func WrapWithCookieJar(inner http.RoundTripper, jar http.CookieJar) http.RoundTripper {
	if jar == nil || inner == nil {
		return inner
	}
	if wrapped, ok := inner.(*cookieWrap); ok && wrapped.jar == jar {
		return inner
	}
	return &cookieWrap{inner: inner, jar: jar}
}

func (w *cookieWrap) RoundTrip(req *http.Request) (*http.Response, error) {
	outgoing := req
	if cookies := w.jar.Cookies(req.URL); len(cookies) > 0 {
		outgoing = req.Clone(req.Context())
		for _, c := range cookies {
			outgoing.AddCookie(c)
		}
	}
	resp, err := w.inner.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		w.jar.SetCookies(req.URL, cookies)
	}
	return resp, nil
}
