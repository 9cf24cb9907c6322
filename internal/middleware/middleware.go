package middleware

import "net/http"

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h in order, so the last middleware is the outermost
// and sees each request first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
