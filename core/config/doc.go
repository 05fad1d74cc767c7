// Package config loads the application configuration.
//
// Values come from the environment, optionally seeded from a .env file (godotenv),
// and are decoded by Viper into Config. Defaults live in 'default' struct tags; the
// environment name of a key is its section and tag joined by an underscore, e.g.
// STORAGE_BUCKET, LOG_LEVEL or COMPARE_OUTPUT_COLUMNS.
//
// # Sections
//
//   - Server: HTTP port, API key, body limit
//   - Storage: S3/MinIO endpoint, credentials and bucket
//   - Database: optional MySQL or SQLite connection for db:// sources
//   - Log: level and format
//   - Compare: key, compared and output columns plus report defaults
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schema, err := cfg.Compare.Schema()
package config
