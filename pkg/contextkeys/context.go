package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB в gin.Context
const DBContextKey = contextKey("db")

// PrincipalContextKey - ключ для auth.Principal, который кладет AuthMiddleware
const PrincipalContextKey = contextKey("principal")
