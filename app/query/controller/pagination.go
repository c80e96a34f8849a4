package controller

import (
	"math"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 500
	maxLimit     = 5000
)

type pageSpec struct {
	Limit  int
	Offset int
}

func parsePageSpec(r *http.Request) (pageSpec, error) {
	qs := r.URL.Query()
	limit := defaultLimit
	if v := qs.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			return pageSpec{}, errInvalidLimit
		} else {
			limit = int(math.Min(float64(n), maxLimit))
		}
	}

	var offset int
	if v := qs.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return pageSpec{}, errInvalidOffset
		}
		offset = n
	}

	return pageSpec{Limit: limit, Offset: offset}, nil
}

var (
	errInvalidLimit  = &parseError{msg: "invalid limit"}
	errInvalidOffset = &parseError{msg: "invalid offset"}
)

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
