package user

import "gorm.io/gorm"

func RunMigration(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Address{})
}
