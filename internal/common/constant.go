package common

// Cookie names carrying the session tokens between the REST boundary and clients.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)
