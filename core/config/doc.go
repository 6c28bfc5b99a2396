// Package config loads application settings.
//
// Values come from a .env file (if present) overlaid onto the process environment,
// read through Viper. Every key has a default taken from the `default` struct tag,
// and nested keys map to upper-case, underscore separated variables
// (database.host -> DATABASE_HOST).
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: lesson store driver (postgres, mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the bucket holding roster exports
//   - Roster: object prefix and extension of roster exports
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
