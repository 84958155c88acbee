package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/gateway/internal/middleware"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
)

const apiPrefix = "/api/v1"

type Deps struct {
	UserURL    string
	CatalogURL string
	CartURL    string
	OrderURL   string
	PaymentURL string

	CSRFConfig middleware.CSRFConfig
	JWTSecret  []byte
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func Register(e *echo.Echo, d *Deps) error {
	proxies := make(map[string]echo.HandlerFunc, 5)
	for _, u := range []upstream{
		{name: "user", target: d.UserURL},
		{name: "catalog", target: d.CatalogURL, mount: "/api"},
		{name: "cart", target: d.CartURL},
		{name: "order", target: d.OrderURL, mount: "/api"},
		{name: "payment", target: d.PaymentURL, mount: "/api"},
	} {
		h, err := u.handler()
		if err != nil {
			return err
		}
		proxies[u.name] = h
	}
	userProxy, catalogProxy, cartProxy := proxies["user"], proxies["catalog"], proxies["cart"]
	orderProxy, paymentProxy := proxies["order"], proxies["payment"]

	api := e.Group(apiPrefix, middleware.CSRF(d.CSRFConfig))

	api.Any("/auth/*", userProxy)
	api.GET("/products", catalogProxy)
	api.GET("/products/*", catalogProxy)

	private := api.Group("", middleware.Middleware(d.JWTSecret))
	requireAdmin := middleware.RequireRole(tokens.RoleAdmin)
	private.Match(writeMethods, "/products", catalogProxy, requireAdmin)
	private.Match(writeMethods, "/products/*", catalogProxy, productWrites(requireAdmin))
	private.Any("/users/*", userProxy)
	private.Any("/cart/*", cartProxy)
	private.POST("/checkout", cartProxy)
	private.Any("/orders", orderProxy)
	private.Any("/orders/*", orderProxy)
	private.Any("/payments", paymentProxy)
	private.Any("/payments/*", paymentProxy)

	admin := private.Group("", requireAdmin)
	admin.PATCH("/orders/:orderId/status", orderProxy)

	return nil
}

// productWrites lets any signed-in customer post reviews and batch lookups.
// Every other catalog write, stock reduction included, is admin only.
func productWrites(requireAdmin echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		admin := requireAdmin(next)
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodPost && customerWrite(c.Param("*")) {
				return next(c)
			}
			return admin(c)
		}
	}
}

func customerWrite(rest string) bool {
	if rest == "batch" {
		return true
	}
	id, tail, ok := strings.Cut(rest, "/")
	return ok && id != "" && tail == "reviews"
}
