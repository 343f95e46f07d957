package dto

type CreateOrderRequest struct {
	Email       string `json:"email"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Price       string `json:"price"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type GrantAccessRequest struct {
	Email         string `json:"email"`
	DiscordUserID string `json:"discordUserId"`
	OrderID       string `json:"orderId"`
	DurationDays  int    `json:"durationDays"`
}

type GrantAccessResponse struct {
	ExpiresAt string `json:"expiresAt"`
}

type TestWebhookRequest struct {
	Email  string `json:"email"`
	LinkID string `json:"linkId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
