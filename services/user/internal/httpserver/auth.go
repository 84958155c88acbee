package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/authclient"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/user/internal/service"
	"github.com/Skotchmaster/oss_shop/services/user/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
	OTP *service.OTPService
}

func setSessionCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func tokenResponse(res *service.LoginResult) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		IsAdmin:      res.IsAdmin,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "register_error", badRequest("invalid body"))
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Phone, req.Password)
	if err != nil {
		return fail(l, "register_error", err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) RegisterStub(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register_stub")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "register_stub_error", badRequest("invalid body"))
	}

	user, err := h.Svc.RegisterStub(ctx, req.Email, req.Phone)
	if err != nil {
		return fail(l, "register_stub_error", err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "login_error", badRequest("invalid body"))
	}

	res, err := h.Svc.Login(ctx, req.EmailOrPhone, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	setSessionCookies(c, res)
	l.Info("login_successful", "user_id", res.UserID)

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  res.UserID,
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var token string
	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req transport.RefreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return fail(l, "refresh_error", badRequest("refresh token is required"))
	}

	res, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
		c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
		return fail(l, "refresh_error", err)
	}

	setSessionCookies(c, res)
	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))

	if refreshCookie, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.LogOut(ctx, refreshCookie.Value); err != nil {
			return fail(l, "logout_error", err)
		}
	}

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) SetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.set_password")

	sub, _ := c.Get("user_id").(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return fail(l, "set_password_error", badRequest("invalid user in token"))
	}

	var req transport.SetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "set_password_error", badRequest("invalid body"))
	}
	if err := h.Svc.SetPassword(ctx, uint(userID), req.Password); err != nil {
		return fail(l, "set_password_error", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) GetUserDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.user_details")

	id, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "user_details_error", err)
	}

	details, err := h.Svc.GetUserDetails(ctx, id)
	if err != nil {
		return fail(l, "user_details_error", err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *AuthHTTP) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.mfa_send")

	var req transport.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "otp_send_error", badRequest("invalid body"))
	}

	otp, err := h.OTP.SendOTP(ctx, req.UserID, req.Email)
	if err != nil {
		return fail(l, "otp_send_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "otp sent",
		"expires_at": otp.ExpiresAt,
	})
}

func (h *AuthHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.mfa_verify")

	var req transport.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "otp_verify_error", badRequest("invalid body"))
	}

	ok, err := h.OTP.VerifyOTP(ctx, req.UserID, req.Email, req.Code)
	if err != nil {
		return fail(l, "otp_verify_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": ok})
}

// localRefresher serves the auth middleware's token refresh in-process.
type localRefresher struct {
	svc *service.AuthService
}

func (r localRefresher) RefreshTokens(ctx context.Context, refreshToken, _ string) (*authclient.RefreshResponse, error) {
	res, err := r.svc.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	t := tokenResponse(res)
	return &authclient.RefreshResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		AccessExp:    t.AccessExp,
		RefreshExp:   t.RefreshExp,
		IsAdmin:      t.IsAdmin,
	}, nil
}
