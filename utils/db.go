package utils

import (
	"sync"

	"gorm.io/gorm"
)

// The travel app opens one gorm connection at boot (config.InitDB) and
// shares it through this handle; controllers, services and the seeder
// never open their own.
var (
	db   *gorm.DB
	once sync.Once
	mu   sync.RWMutex
)

// InitDB stores the shared connection. Later calls are no-ops, so the
// handle cannot be swapped mid-flight.
func InitDB(database *gorm.DB) {
	once.Do(func() {
		db = database
	})
}

// GetDB returns the shared connection, nil before InitDB.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return db
}
