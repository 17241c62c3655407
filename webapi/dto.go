package webapi

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AmountRequest is the payload for deposits and withdrawals.
type AmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// TransferRequest is the payload for transfers.
type TransferRequest struct {
	ToAccountID string `json:"to_account_id" validate:"required,uuid4"`
	Amount      string `json:"amount" validate:"required"`
}

// ScreenRequest is the payload for anomaly screening.
type ScreenRequest struct {
	Amount string `json:"amount" validate:"required"`
}
