// internal/identity/provider.go
package identity

import "context"

// Profile is the identity returned by the external provider. All three
// fields are required downstream; a profile missing any of them is rejected.
type Profile struct {
	ID    string
	Email string
	Name  string
}

// Provider abstracts the external identity provider so the callback flow can
// be completed server-side (code exchange) or client-assisted (access token
// handed over by the browser) without touching the exchange service.
type Provider interface {
	// LoginURL builds the provider's authorization URL for the given state.
	LoginURL(state string) string
	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchProfile resolves an access token into the holder's profile.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}
