package httpserver

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/transport"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/util"
)

const maxImageSize = 5 << 20

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func badRequest(msg string) error {
	return httperr.New(http.StatusBadRequest, httperr.CodeValidation, msg)
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "get_product_error", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	minPrice, err := parsePrice(c.QueryParam("min_price"))
	if err != nil {
		return fail(l, "get_products_error", badRequest("min_price must be a number"))
	}
	maxPrice, err := parsePrice(c.QueryParam("max_price"))
	if err != nil {
		return fail(l, "get_products_error", badRequest("max_price must be a number"))
	}

	filter := repo.ProductFilter{
		Q:        c.QueryParam("q"),
		Brand:    c.QueryParam("brand"),
		Category: c.QueryParam("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	}

	total, items, err := h.Svc.ListProducts(ctx, filter, offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) BatchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.batch")

	var req transport.BatchRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "batch_products_error", badRequest("invalid body"))
	}

	items, err := h.Svc.BatchProducts(ctx, req.IDs)
	if err != nil {
		return fail(l, "batch_products_error", err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "product_create_error", badRequest("invalid body"))
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "product_patch_error", err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "product_patch_error", badRequest("invalid body"))
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(l, "product_patch_error", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "product_delete_error", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) CheckStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.check_stock")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "check_stock_error", err)
	}
	qty := util.ParseIntDefault(c.QueryParam("quantity"), 1)

	return c.JSON(http.StatusOK, transport.StockCheckResponse{
		ProductID: id,
		Quantity:  qty,
		Available: h.Svc.CheckStock(ctx, id, qty),
	})
}

func (h *CatalogHTTP) ReduceStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.reduce_stock")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "reduce_stock_error", err)
	}
	qty := util.ParseIntDefault(c.QueryParam("quantity"), 0)

	prod, err := h.Svc.ReduceStock(ctx, id, qty)
	if err != nil {
		return fail(l, "reduce_stock_error", err)
	}

	l.Info("reduce_stock_success", "product_id", id, "quantity", qty, "stock", prod.Stock)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.upload_image")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "upload_image_error", err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(l, "upload_image_error", badRequest("file is required"))
	}
	if fh.Size > maxImageSize {
		return fail(l, "upload_image_error", badRequest("file is too large"))
	}
	f, err := fh.Open()
	if err != nil {
		return fail(l, "upload_image_error", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		return fail(l, "upload_image_error", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	img, err := h.Svc.UploadImage(ctx, id, fh.Filename, strings.TrimSpace(contentType), data)
	if err != nil {
		return fail(l, "upload_image_error", err)
	}

	l.Info("upload_image_success", "product_id", id, "image_id", img.ID)
	return c.JSON(http.StatusCreated, img)
}

func (h *CatalogHTTP) GetImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_image")

	id, err := parseID(c, "imageId")
	if err != nil {
		return fail(l, "get_image_error", err)
	}

	img, err := h.Svc.GetImage(ctx, id)
	if err != nil {
		return fail(l, "get_image_error", err)
	}
	if len(img.Data) == 0 {
		return c.Redirect(http.StatusFound, img.ImageURL)
	}

	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}
