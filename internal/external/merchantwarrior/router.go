package merchantwarrior

import "strings"

// Base URLs of the sandbox and live gateway services.
const (
	TokenTestURL = "https://base.merchantwarrior.com/token/"
	TokenLiveURL = "https://api.merchantwarrior.com/token/"

	PostTestURL = "https://base.merchantwarrior.com/post/"
	PostLiveURL = "https://api.merchantwarrior.com/post/"
)

// Endpoints are the base URLs of the token service and the direct-post
// service.
type Endpoints struct {
	Token string
	Post  string
}

// DefaultEndpoints returns the sandbox or live gateway hosts.
func DefaultEndpoints(sandbox bool) Endpoints {
	if sandbox {
		return Endpoints{Token: TokenTestURL, Post: PostTestURL}
	}
	return Endpoints{Token: TokenLiveURL, Post: PostLiveURL}
}

// isTokenRequest reports whether the request belongs to the token service:
// it either charges a stored card or stores a new one.
func isTokenRequest(f Fields) bool {
	return f.has("cardID") || f.has("cardName")
}

// urlFor picks the endpoint for method. The token service takes the method as
// a path segment, the post service as a body field.
func (e Endpoints) urlFor(method string, f Fields) string {
	if isTokenRequest(f) {
		return strings.TrimRight(e.Token, "/") + "/" + method
	}
	return e.Post
}
