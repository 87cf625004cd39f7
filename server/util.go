package main

import (
	"net"
	"net/http"

	"github.com/google/uuid"
)

// newConnID returns a random connection identifier
func newConnID() string {
	return uuid.NewString()
}

// extractIP returns the remote host of a request without its port
func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
