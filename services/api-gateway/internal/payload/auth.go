package payload

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type RequestOTPResponse struct {
	ExpiresInSeconds int64 `json:"expires_in_seconds"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code"  validate:"required,len=4,number"`
}

type User struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

type VerifyOTPResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
