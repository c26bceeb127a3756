// Package middleware provides composable net/http middleware.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Stack applies middleware in registration order: the first added is outermost.
type Stack struct {
	mw []Middleware
}

// Use appends mw to the stack.
func (s *Stack) Use(mw Middleware) {
	s.mw = append(s.mw, mw)
}

// Apply wraps handler with every registered middleware.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.mw) - 1; i >= 0; i-- {
		handler = s.mw[i](handler)
	}
	return handler
}
