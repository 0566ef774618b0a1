package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому в gin.Context хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// UserIDKey и RoleKey выставляет AuthMiddleware после разбора JWT
	UserIDKey = "userID"
	RoleKey   = "role"

	// ActorKey - разрешенный auth.Actor, кешируется на время запроса
	ActorKey = "actor"
)
