package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type PaymentMethodResponse struct {
	Transaction any `json:"transaction"`
	// Populated for online payments.
	AuthorizationURL string `json:"authorization_url,omitempty"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference,omitempty"`
	// Populated for bank transfers.
	VirtualAccountNumber string `json:"virtual_account_number,omitempty"`
	VirtualAccountBank   string `json:"virtual_account_bank,omitempty"`
}

type ReleaseResponse struct {
	Transaction any `json:"transaction"`
	Transfer    any `json:"transfer,omitempty"`
}
