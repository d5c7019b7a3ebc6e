// Package netx contains small HTTP networking helpers.
package netx

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// ignored; when the server sits behind a trusted proxy, RemoteAddr is
// rewritten from them before this is called.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
