package response_models

type LoginResponse struct {
	Token string `json:"token"`
}

type AccountProfileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}
