package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

type sessionApi struct {
	svc        *session.Service
	auth       *authenticator
	validate   *validator.Validate
	translator ut.Translator
}

func registerSessionAPI(g *echo.Group, api *sessionApi) {
	jwt := api.auth.middleware()

	sg := g.Group("/session")
	sg.POST("/login", api.login)
	sg.POST("/logout", api.logout, jwt)
	sg.GET("", api.snapshot, jwt)

	g.GET("/notices", api.notices, jwt)
	g.GET("/stats", api.stats, jwt)
}

// withStore runs fn against the Store of the request's session.
func (api *sessionApi) withStore(ctx echo.Context, fn func(*session.Store) error) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return api.svc.Do(ctx.Request().Context(), claims.Subject, fn)
}

// Handlers

func (api *sessionApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	role, err := user.ParseRole(data.Role)
	if err != nil {
		return err
	}

	sid, usr, err := api.svc.Login(ctx.Request().Context(), role)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	token, err := api.auth.generateToken(api.auth.claimsFor(sid, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Logout(ctx.Request().Context(), claims.Subject); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) snapshot(ctx echo.Context) error {
	var snap session.Snapshot
	if err := api.withStore(ctx, func(s *session.Store) error {
		snap = s.Snapshot()
		return nil
	}); err != nil {
		return errors.Wrap(err, "getting snapshot")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *sessionApi) notices(ctx echo.Context) error {
	var notices []session.Notice
	if err := api.withStore(ctx, func(s *session.Store) error {
		notices = s.DrainNotices()
		return nil
	}); err != nil {
		return errors.Wrap(err, "draining notices")
	}
	return ctx.JSON(http.StatusOK, NoticesResponse{Notices: notices})
}

func (api *sessionApi) stats(ctx echo.Context) error {
	var st session.Stats
	if err := api.withStore(ctx, func(s *session.Store) (err error) {
		st, err = s.Stats()
		return err
	}); err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, st)
}
