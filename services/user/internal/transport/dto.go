package transport

type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	EmailOrPhone string `json:"email_or_phone"`
	Password     string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	IsAdmin      bool   `json:"is_admin"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

type UserDetails struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

type SendOTPRequest struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

type VerifyOTPRequest struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Code   string `json:"code"`
}

type ProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type AddressRequest struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type PaymentMethodRequest struct {
	Provider    string `json:"provider"`
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	PaymentType string `json:"payment_type"`
	IsDefault   bool   `json:"is_default"`
}

type WishlistRequest struct {
	ProductID uint `json:"product_id"`
}
