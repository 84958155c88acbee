package httpserver

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/oss_shop/pkg/tokens"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
)

func TestAccountRoutesRequireSelf(t *testing.T) {
	env := newTestEnv(t)
	ann := env.register(t, "ann@example.com")
	bob := env.register(t, "bob@example.com")
	annPath := "/users/" + strconv.FormatUint(uint64(ann.ID), 10)

	rec := env.do(http.MethodGet, annPath+"/addresses", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, annPath+"/addresses", nil, token(t, tokens.RoleUser, bob.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, annPath+"/addresses", nil, token(t, tokens.RoleAdmin, bob.ID))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, annPath+"/addresses", nil, token(t, tokens.RoleUser, ann.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountAddressesAndWishlist(t *testing.T) {
	env := newTestEnv(t)
	ann := env.register(t, "ann@example.com")
	path := "/users/" + strconv.FormatUint(uint64(ann.ID), 10)
	ck := token(t, tokens.RoleUser, ann.ID)

	rec := env.do(http.MethodPost, path+"/addresses", map[string]any{
		"line1": "1 Main St", "city": "Springfield", "state": "IL", "postal_code": "62701", "country": "US",
	}, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	addr := decode[models.Address](t, rec)
	assert.True(t, addr.IsDefault)

	rec = env.do(http.MethodPost, path+"/addresses", map[string]any{"line1": "x"}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, path+"/addresses/"+strconv.FormatUint(uint64(addr.ID), 10), nil, ck)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodPost, path+"/wishlist", map[string]any{"product_id": 7}, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, path+"/wishlist", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.WishlistItem](t, rec), 1)

	rec = env.do(http.MethodDelete, path+"/wishlist/7", nil, ck)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodDelete, path+"/wishlist/7", nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPut, path+"/profile", map[string]any{"full_name": "Ann"}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(http.MethodGet, path+"/profile", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", decode[models.Profile](t, rec).FullName)

	rec = env.do(http.MethodGet, path+"/orders", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
