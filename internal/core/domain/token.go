package domain

// TokenType discriminates access tokens from refresh tokens. Each type is
// signed with its own secret, so a token of one type never verifies as the
// other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenPair is the response value handed to a caller after login, register,
// or refresh. It is never persisted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
