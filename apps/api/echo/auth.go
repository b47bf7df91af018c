package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const tokenContextKey = "sessionToken"

// Claims identify a session. They are a handle on in-memory state, not a proof of identity.
type Claims struct {
	jwt.StandardClaims
	UserID string    `json:"uid,omitempty"`
	Role   user.Role `json:"role,omitempty"`
}

type authenticator struct {
	conf      middleware.JWTConfig
	appName   string
	expiresIn time.Duration
	nowFunc   func() time.Time
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(Claims),
		},
		appName:   conf.AppName,
		expiresIn: conf.Server.SessionTTL,
		nowFunc:   time.Now,
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.conf)
}

// claimsFor returns the Claims of session `sid` logged in as `usr`.
func (a *authenticator) claimsFor(sid string, usr user.User) *Claims {
	now := a.nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.appName,
			Subject:   sid,
			ExpiresAt: now.Add(a.expiresIn).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: usr.ID,
		Role:   usr.Role,
	}
}

// generateToken generates a signed JWT token string representing the session Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.conf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.conf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
