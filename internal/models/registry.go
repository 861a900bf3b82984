package models

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Video{},
		&Tweet{},
		&Comment{},
		&Like{},
		&WatchHistory{},
	}
}
