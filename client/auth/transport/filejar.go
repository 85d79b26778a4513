package transport

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileJar is a cookiejar.Jar that persists cookies to a JSON file on each update and
// reloads them on startup, so the renewal cookie survives CLI restarts.
// cookiejar.Jar cannot enumerate its content, so FileJar keeps its own index.
type FileJar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	path    string
	entries map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	HostOnly bool      `json:"hostOnly,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
}

func (c persistedCookie) key() string {
	return c.Domain + "|" + c.Path + "|" + c.Name
}

func (c persistedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && now.After(c.Expires)
}

func (c persistedCookie) url() *neturl.URL {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return &neturl.URL{Scheme: scheme, Host: strings.TrimPrefix(c.Domain, "."), Path: c.Path}
}

func (c persistedCookie) cookie() *http.Cookie {
	ret := &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HttpOnly}
	if !c.HostOnly {
		ret.Domain = c.Domain
	}
	return ret
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

// NewFileJar creates a cookie jar persisted at path.
func NewFileJar(path string) (*FileJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &FileJar{inner: inner, path: path, entries: map[string]persistedCookie{}}
	if err = j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileJar) Cookies(u *neturl.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		entry := persist(u, c, now)
		if c.MaxAge < 0 || entry.expired(now) {
			delete(j.entries, entry.key())
			continue
		}
		j.entries[entry.key()] = entry
	}
	_ = j.save()
}

func persist(u *neturl.URL, c *http.Cookie, now time.Time) persistedCookie {
	ret := persistedCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   strings.TrimPrefix(strings.TrimSpace(c.Domain), "."),
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if ret.Domain == "" {
		host := u.Host
		if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
			host = h
		}
		ret.Domain = host
		ret.HostOnly = true
	}
	if ret.Path == "" {
		ret.Path = "/"
	}
	if c.MaxAge > 0 {
		ret.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	}
	return ret
}

func (j *FileJar) save() error {
	snap := cookieSnapshot{Cookies: make([]persistedCookie, 0, len(j.entries))}
	for _, v := range j.entries {
		snap.Cookies = append(snap.Cookies, v)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	now := time.Now()
	for _, pc := range snap.Cookies {
		if pc.expired(now) || pc.Domain == "" {
			continue
		}
		j.inner.SetCookies(pc.url(), []*http.Cookie{pc.cookie()})
		j.entries[pc.key()] = pc
	}
	return nil
}
