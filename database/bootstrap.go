// database/bootstrap.go
package database

import (
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"

	"sheetchat/entities"
)

func OpenSQLite(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}

	// Uploaded rows can be large JSON blobs; give writers a little room.
	if err := db.Exec(`PRAGMA busy_timeout = 5000`).Error; err != nil {
		log.Fatalf("pragma: %v", err)
	}

	if err := db.AutoMigrate(&entities.Document{}); err != nil {
		log.Fatalf("automigrate: %v", err)
	}
	return db
}
