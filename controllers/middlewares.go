package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"outfitapi/metrics"
	"outfitapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UserMiddleware loads the account named by the token's sub claim into
// "currentUser".
func UserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		users := c.Get("__users").(services.UserStore)
		userRaw := c.Get("user")
		if userRaw == nil {
			return echo.ErrUnauthorized
		}
		user := userRaw.(*jwt.Token)
		claims := user.Claims.(jwt.MapClaims)
		sub, _ := claims["sub"].(string)
		if sub == "" {
			log.Ctx(c.Request().Context()).Warn().Msg("token without subject")
			return echo.ErrUnauthorized
		}
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return echo.ErrUnauthorized
		}

		currentUser, err := users.FindUser(c.Request().Context(), uint(userID))
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.ErrUnauthorized
		}
		if err != nil {
			sentry.CaptureException(fmt.Errorf("loading user %d: %w", userID, err))
			return echo.ErrInternalServerError
		}
		if currentUser.Banned {
			return echo.NewHTTPError(http.StatusLocked)
		}

		logger := log.Ctx(c.Request().Context()).With().Uint("user_id", currentUser.ID).Logger()
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))
		c.Set("currentUser", *currentUser)
		return next(c)
	}
}

// RequestLogger attaches a request scoped zerolog logger and counts requests.
func RequestLogger(reg *metrics.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			logger := log.With().
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// let echo write the error so the status below is the real one
				c.Error(err)
			}

			status := c.Response().Status
			labels := map[string]string{
				"method": req.Method,
				"path":   c.Path(),
				"status": metrics.StatusClass(status),
			}
			reg.Inc(req.Context(), metrics.HTTPRequests, labels)
			if status >= 500 {
				reg.Inc(req.Context(), metrics.HTTPRequestErrors, labels)
				logger.Error().Err(err).Int("status", status).Dur("duration", time.Since(start)).Msg("http request failed")
			} else {
				logger.Info().Int("status", status).Dur("duration", time.Since(start)).Msg("http request served")
			}
			return nil
		}
	}
}
