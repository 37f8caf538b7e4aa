// Package middleware holds the Echo middleware shared by every route and
// the global error handler.
package middleware
