package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	AuthClient     middleware.TokenRefresher
}

func Register(e *echo.Echo, d *Deps) {
	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.POST("/batch", d.CatalogHandler.BatchProducts)
	products.GET("/image/:imageId", d.CatalogHandler.GetImage)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/check-stock", d.CatalogHandler.CheckStock)
	products.PUT("/:id/reduce-stock", d.CatalogHandler.ReduceStock)
	products.GET("/:id/reviews", d.CatalogHandler.ListReviews)
	products.POST("/:id/reviews", d.CatalogHandler.CreateReview, authMW.RequireAuth)
	products.GET("/:id/reviews/average-rating", d.CatalogHandler.AverageRating)
	products.GET("/:id/reviews/count", d.CatalogHandler.CountReviews)

	admin := products.Group("", authMW.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/:id/image", d.CatalogHandler.UploadImage)
}
