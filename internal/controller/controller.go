package controller

import (
	"net/url"
	"strings"

	"clientmint_backend/pkg/config"
)

var (
	cfg        *config.Config
	publicURL  string
	publicHost string
)

// Init wires the shared configuration into the controllers. Must be called
// before any route is served.
func Init(c *config.Config) {
	cfg = c
	publicURL = strings.TrimSuffix(c.Server.PublicURL, "/")
	if u, err := url.Parse(c.Server.PublicURL); err == nil {
		publicHost = strings.ToLower(u.Hostname())
	}
}
