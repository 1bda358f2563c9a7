package model

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// Request describes one call to the HomeWizard. Parts are concatenated as-is
// after the base URL, so each part carries its own slashes.
type Request struct {
	Method Method
	Parts  []any
	// MaxAge is how old a cached response may be. Zero disables caching.
	MaxAge time.Duration
	// Unwrap returns the "response" member of the envelope instead of the
	// whole document, when present.
	Unwrap bool
}

// NewRequest returns an uncached GET that unwraps the envelope.
func NewRequest(parts ...any) Request {
	return Request{
		Method: MethodGet,
		Parts:  parts,
		Unwrap: true,
	}
}

func (r Request) WithMethod(m Method) Request {
	r.Method = m
	return r
}

func (r Request) WithMaxAge(d time.Duration) Request {
	r.MaxAge = d
	return r
}

// Raw keeps the envelope intact in the returned payload.
func (r Request) Raw() Request {
	r.Unwrap = false
	return r
}

func (r Request) Cacheable() bool {
	return r.MaxAge > 0
}

func (r Request) Path() string {
	var b strings.Builder
	for _, p := range r.Parts {
		fmt.Fprint(&b, p)
	}
	return b.String()
}
