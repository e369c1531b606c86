package auth

// Principal - аутентифицированный пользователь запроса.
// Создается AuthMiddleware после загрузки пользователя из базы.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Owns - principal является владельцем ресурса
func (p Principal) Owns(ownerID string) bool {
	return p.UserID != "" && p.UserID == ownerID
}
