package jwt

// Payload is the claim set carried by a session token.
type Payload struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
