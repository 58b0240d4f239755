package auth

type RegisterRequest struct {
	Name     string `json:"name"`     // Отображаемое имя игрока
	Login    string `json:"login"`    // Логин (уникальный)
	Password string `json:"password"` // Пароль открытым текстом
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
