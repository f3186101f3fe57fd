package dto

// Data Transfer Objects for the signup and token endpoints

// SignupRequest: payload for passwordless registration
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,min=3,max=150"`
}

// SignupResponse echoes the accepted identity back to the caller
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: payload for exchanging a confirmation code for a token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: response payload after a successful exchange
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
