// Package public implements the storefront API surface: cart
// management, stock holds, checkout, and order lookups.
package public

import "github.com/youngre511/PeachBlossom-eStore-sub003/internal/provider"

// Handler serves shopper-facing endpoints.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
