package database

import "tradepost/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Goods{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Message{},
	}
}
