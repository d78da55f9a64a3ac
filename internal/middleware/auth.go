package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

// Context keys set by RequireAuth
const (
	ContextKeyPhotographer = "photographer"
	ContextKeyUserUID      = "userUID"
	ContextKeyUserEmail    = "userEmail"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RequireAuth returns a middleware that verifies the Firebase ID token sent as
// a bearer token and loads the photographer linked to its uid
func RequireAuth(verifier TokenVerifier, db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if verifier == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "La autenticación no está configurada.")
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Falta el encabezado de autorización.")
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Formato de autorización inválido.")
			}

			decodedToken, err := verifier.VerifyIDToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o expirado.").SetInternal(err)
			}

			var photographer models.Photographer
			err = db.WithContext(c.Request().Context()).
				Where("firebase_uid = ? AND active = ?", decodedToken.UID, true).
				First(&photographer).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Log.Warnw("token without photographer", "uid", decodedToken.UID)
					return echo.NewHTTPError(http.StatusUnauthorized, "Fotógrafo no registrado.")
				}
				return err
			}

			c.Set(ContextKeyUserUID, decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set(ContextKeyUserEmail, email)
			}
			c.Set(ContextKeyPhotographer, &photographer)

			return next(c)
		}
	}
}

// RequireOwnPhotographer rejects requests whose path parameter does not name
// the authenticated photographer. It must run after RequireAuth.
func RequireOwnPhotographer(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			photographer := CurrentPhotographer(c)
			if photographer == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No autenticado.")
			}

			id, err := strconv.ParseUint(c.Param(param), 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusNotFound, "Fotógrafo no encontrado.")
			}
			if uint(id) != photographer.ID {
				return echo.NewHTTPError(http.StatusForbidden, "No tienes acceso a los recursos de este fotógrafo.")
			}

			return next(c)
		}
	}
}

// CurrentPhotographer returns the photographer set by RequireAuth, or nil
func CurrentPhotographer(c echo.Context) *models.Photographer {
	p, _ := c.Get(ContextKeyPhotographer).(*models.Photographer)
	return p
}
