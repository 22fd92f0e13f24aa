package dbhelper

import (
	"fmt"

	"outfitapi/models"

	"gorm.io/gorm"
)

// SetupCleaner returns a func that empties every table, children first.
func SetupCleaner(db *gorm.DB) func() {
	return func() {
		all := db.Session(&gorm.Session{AllowGlobalUpdate: true})
		all.Unscoped().Delete(&models.OutfitItem{})
		all.Unscoped().Delete(&models.Outfit{})
		all.Unscoped().Delete(&models.Clothing{})
		all.Unscoped().Delete(&models.UserPushToken{})
		all.Unscoped().Delete(&models.UserAccount{})
	}
}

func Migrate(db *gorm.DB, model interface{}) error {
	if err := db.AutoMigrate(model); err != nil {
		return fmt.Errorf("migrate %T: %w", model, err)
	}
	return nil
}
