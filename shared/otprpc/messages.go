package otprpc

// User is the account record returned after a successful verification.
type User struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

type RequestOTPResponse struct {
	ExpiresInSeconds int64 `json:"expires_in_seconds"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// RevokeSessionRequest is empty: the session is identified by the bearer token.
type RevokeSessionRequest struct{}

type RevokeSessionResponse struct{}
