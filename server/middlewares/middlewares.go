package middlewares

import (
	"net/http"

	"github.com/Luismorlan/craftvalley/auth"
	"github.com/gin-gonic/gin"
)

// ErrorTokenAuthFail is the application error code attached to every
// rejected authentication.
const ErrorTokenAuthFail = 20001

var (
	// verifier resolves access tokens to identities. Before any
	// middleware is used, make sure it's initialized correctly.
	verifier auth.TokenVerifier
)

// Setup initializes all package scoped variables that are needed to
// perform middleware functionalities. This function must be called
// before any middleware is used.
func Setup(v auth.TokenVerifier) {
	verifier = v
}

// Token middleware fetches the access token in the "token" query
// parameter or http header, resolves it against the auth provider and
// adds a new field "sub" storing the user's id. It rejects the request
// on token not provided or token is invalid (wrong token or expired).
func Token() gin.HandlerFunc {
	return func(c *gin.Context) {
		// "sub" is set by this middleware only, never trusted from the
		// client.
		c.Request.Header.Del("sub")

		token := c.Query("token")
		if token == "" {
			token = c.Request.Header.Get("token")
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorTokenAuthFail,
				"msg":  "empty access token",
			})
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorTokenAuthFail,
				"msg":  err.Error(),
			})
			c.Abort()
			return
		}

		// Successfully validated the token, replace the header field
		// "token" with the user's sub (id).
		c.Request.Header.Del("token")
		c.Request.Header.Add("sub", identity.Id)

		// before request
		c.Next()
	}
}

// OptionalToken resolves the token when one is supplied and otherwise
// lets the request through anonymously. Handlers that need an identity
// reject anonymous requests themselves. A supplied but invalid token
// is still rejected outright.
func OptionalToken() gin.HandlerFunc {
	strict := Token()
	return func(c *gin.Context) {
		c.Request.Header.Del("sub")

		if c.Query("token") == "" && c.Request.Header.Get("token") == "" {
			c.Next()
			return
		}
		strict(c)
	}
}
