package model

// User is the authenticated principal as reported by the identity gateway.
type User struct {
	ID    string
	Email string
}

// Session is the opaque authenticated-principal handle returned by the
// gateway after a successful code exchange. The gateway owns session
// lifecycle; the application only carries the access token back and forth.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
