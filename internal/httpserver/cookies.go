package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

func CreateCookie(name, value, path string, expTime time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieStorage is the browser's cookie jar seen from one request. Writes are
// visible to later reads within the same request.
type CookieStorage struct {
	c      echo.Context
	secure bool
	ttl    time.Duration

	mu      sync.Mutex
	written map[string]*string
}

func NewCookieStorage(c echo.Context, secure bool, ttl time.Duration) *CookieStorage {
	return &CookieStorage{c: c, secure: secure, ttl: ttl, written: map[string]*string{}}
}

func (s *CookieStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.written[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	ck, err := s.c.Cookie(key)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (s *CookieStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetCookie(CreateCookie(key, value, "/", time.Now().Add(s.ttl), s.secure))
	s.written[key] = &value
}

func (s *CookieStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetCookie(DeleteCookie(key, "/", s.secure))
	s.written[key] = nil
}
