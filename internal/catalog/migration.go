package catalog

import "gorm.io/gorm"

func RunMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&Brand{},
		&Category{},
		&MotoModel{},
		&Part{},
		&Merchandise{},
	)
}
