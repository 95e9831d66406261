package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieStorage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "old"})
	rec := httptest.NewRecorder()
	s := NewCookieStorage(e.NewContext(req, rec), true, time.Hour)

	v, ok := s.Get("token")
	require.True(t, ok)
	assert.Equal(t, "old", v)

	s.Set("token", "new")
	v, ok = s.Get("token")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	s.Remove("token")
	_, ok = s.Get("token")
	assert.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "new", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "", cookies[1].Value)
	assert.Equal(t, -1, cookies[1].MaxAge)
}

func TestCookieStorage_MissingCookie(t *testing.T) {
	e := echo.New()
	s := NewCookieStorage(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), false, time.Hour)

	_, ok := s.Get("token")
	assert.False(t, ok)
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size           int
		wantOffset, wantSize int
	}{
		{page: 1, size: 10, wantOffset: 0, wantSize: 10},
		{page: 3, size: 5, wantOffset: 10, wantSize: 5},
		{page: 0, size: 0, wantOffset: 0, wantSize: DefaultPageSize},
		{page: 2, size: 500, wantOffset: DefaultPageSize, wantSize: DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantSize, limit)
	}
}
