package transport

import (
	"bytes"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// replayable buffers the request body so the request can be issued more than once.
type replayable struct {
	request *http.Request
	body    []byte
}

func newReplayable(r *http.Request) (*replayable, error) {
	ret := &replayable{request: r}
	if r.Body == nil || r.Body == http.NoBody {
		return ret, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	ret.body = data
	return ret, nil
}

// next returns a fresh copy of the request carrying token.
func (p *replayable) next(token *oauth2.Token) *http.Request {
	cloned := p.request.Clone(p.request.Context())
	if p.body != nil {
		body := p.body
		cloned.Body = io.NopCloser(bytes.NewReader(body))
		cloned.ContentLength = int64(len(body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	cloned.Header.Del("Authorization")
	if token != nil {
		token.SetAuthHeader(cloned)
	}
	return cloned
}

func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
