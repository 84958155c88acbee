package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/transport"
)

func (h *CatalogHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "create_review_error", err)
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_review_error", badRequest("invalid body"))
	}

	review, err := h.Svc.CreateReview(ctx, id, req)
	if err != nil {
		return fail(l, "create_review_error", err)
	}

	return c.JSON(http.StatusCreated, review)
}

func (h *CatalogHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}

	reviews, err := h.Svc.ListReviews(ctx, id)
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *CatalogHTTP) AverageRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.average")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "average_rating_error", err)
	}

	avg, err := h.Svc.AverageRating(ctx, id)
	if err != nil {
		return fail(l, "average_rating_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product_id": id, "average_rating": avg})
}

func (h *CatalogHTTP) CountReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.count")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "count_reviews_error", err)
	}

	n, err := h.Svc.CountReviews(ctx, id)
	if err != nil {
		return fail(l, "count_reviews_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product_id": id, "count": n})
}
