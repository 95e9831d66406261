package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}

// pageFrom reads ?page=&size=. Without either parameter everything is returned.
func pageFrom(c echo.Context) (offset, limit int) {
	ps, ss := c.QueryParam("page"), c.QueryParam("size")
	if ps == "" && ss == "" {
		return 0, 0
	}
	page, _ := strconv.Atoi(ps)
	size, _ := strconv.Atoi(ss)
	return Calculate(page, size)
}
