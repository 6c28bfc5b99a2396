// Package database opens the lesson store and inspects its schema.
//
// It wraps GORM and selects the dialector from configuration: postgres (the
// hosted backend), mysql, or sqlite (local runs and tests).
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the lessons feature confirm that the
// tables it reads and writes carry the expected columns before it serves traffic.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "lessons", []string{"id", "student_name"})
package database
