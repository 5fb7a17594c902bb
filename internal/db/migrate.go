package db

import (
	"log"

	"github.com/ESTDOM/profile_service/internal/app"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(&app.User{}, &app.Profile{}, &app.ProfileAddress{}, &app.ProfileAuditEntry{})
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully")
}
