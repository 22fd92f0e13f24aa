package controllers

import (
	"net/http"

	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/services"
	"outfitapi/stylist"
	"outfitapi/tasks"

	"github.com/go-playground/validator"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ItemInvalidator drops cached wardrobe reads after a user's items change.
type ItemInvalidator interface {
	Invalidate(userID uint)
}

// ServerDeps is everything the HTTP surface talks to.
type ServerDeps struct {
	Wardrobe    services.WardrobeStore
	Outfits     services.OutfitStore
	Users       services.UserStore
	Engine      *stylist.Engine
	AWSService  services.AWSServiceProvider
	URLCache    services.URLCacheServiceProvider
	Invalidator ItemInvalidator
	Enqueuer    tasks.Enqueuer
	Metrics     *metrics.Registry
	JWTSecret   string
	Bucket      string
}

func SetupServer(deps ServerDeps) *echo.Echo {
	e := echo.New()
	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	v.RegisterValidation("layerkind", models.ValidateLayerKind)
	e.Validator = &CustomValidator{validator: v}

	e.Use(RequestLogger(deps.Metrics))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__users", deps.Users)
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", deps.Metrics.EchoHandler)

	auth := echojwt.JWT([]byte(deps.JWTSecret))

	wardrobeController := WardrobeController{
		Wardrobe:    deps.Wardrobe,
		AWSService:  deps.AWSService,
		URLCache:    deps.URLCache,
		Invalidator: deps.Invalidator,
		Bucket:      deps.Bucket,
	}
	wardrobeGroup := e.Group("/wardrobe", auth, UserMiddleware)
	wardrobeController.WardrobeRoutes(wardrobeGroup)

	outfitController := OutfitController{
		Engine:   deps.Engine,
		Wardrobe: deps.Wardrobe,
		Outfits:  deps.Outfits,
		Enqueuer: deps.Enqueuer,
		Metrics:  deps.Metrics,
	}
	outfitGroup := e.Group("/outfits", auth, UserMiddleware)
	outfitController.OutfitRoutes(outfitGroup)

	return e
}
