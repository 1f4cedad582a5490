package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserProfile{},
		&Campaign{},
		&Candidate{},
		&Vote{},
	)
}

// DropTables removes every table owned by this package. Only used by tests.
func DropTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&Vote{},
		&Candidate{},
		&Campaign{},
		&UserProfile{},
		&User{},
	)
}
