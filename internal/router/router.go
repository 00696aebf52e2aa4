package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"giftledger/internal/config"
	"giftledger/internal/handler"
)

// Register wires routes and middleware. The consumer lookup endpoints are
// public (the lookup page only has the card ID from the QR code); everything
// that mutates the ledger or browses it sits behind bearer-token
// verification. Token issuance lives outside this service.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gifticonHandler *handler.GifticonHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes: customer lookup page shows the card and its usage trail
	api.GET("/gifticons/:id", gifticonHandler.Get)
	api.GET("/gifticons/:id/usages", gifticonHandler.UsageHistory)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	// Administration and register-station routes
	secured.POST("/gifticons", gifticonHandler.Create)
	secured.GET("/gifticons", gifticonHandler.List)
	secured.POST("/gifticons/:id/redeem", gifticonHandler.Redeem)
	secured.POST("/gifticons/:id/recharge", gifticonHandler.Recharge)
	secured.POST("/gifticons/:id/block", gifticonHandler.Block)
	secured.POST("/gifticons/:id/unblock", gifticonHandler.Unblock)

	// Audit routes
	secured.GET("/gifticons/:id/logs", gifticonHandler.StatusLogs)
	secured.GET("/gifticons/:id/recharges", gifticonHandler.RechargeHistory)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
