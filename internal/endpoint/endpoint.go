// Package endpoint holds the API path templates and their substitution.
package endpoint

import (
	"net/url"
	"strings"
)

// Auth.
const (
	AuthLogin    = "/auth/login"
	AuthRegister = "/auth/register"
	AuthRefresh  = "/auth/refresh"
	AuthLogout   = "/auth/logout"
)

// User profile.
const (
	Profile       = "/users/me"
	ProfileAvatar = "/users/me/avatar"
)

// Catalogs.
const (
	Tours      = "/tours"
	Tour       = "/tours/:id"
	TourImages = "/tours/:id/images"

	Services      = "/services"
	Service       = "/services/:id"
	ServiceImages = "/services/:id/images"

	Itineraries     = "/itineraries"
	Itinerary       = "/itineraries/:id"
	ItineraryImages = "/itineraries/:id/images"
)

// Quotes and payments.
const (
	Quotes = "/quotes"
	Quote  = "/quotes/:id"

	Payments       = "/payments"
	Payment        = "/payments/:id"
	PaymentConfirm = "/payments/:id/confirm"
)

// Blog and informational pages.
const (
	BlogPosts   = "/blog/posts"
	BlogPost    = "/blog/posts/:slug"
	ContentPage = "/content/:slug"
)

// Build substitutes :name segments of template with path-escaped values from params.
// Placeholders without a value are left as they are.
func Build(template string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(template, ":") {
		return template
	}

	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if len(seg) < 2 || seg[0] != ':' {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segments[i] = url.PathEscape(v)
		}
	}
	return strings.Join(segments, "/")
}

// ID is a shorthand for templates whose only placeholder is :id.
func ID(template, id string) string {
	return Build(template, map[string]string{"id": id})
}
