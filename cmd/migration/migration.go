package migration

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"

	migrate "github.com/rubenv/sql-migrate"

	"mediline-service/internal/pkg/utils"
)

// Run applies every pending payment-schema migration. The directory is
// overridable so deployments can mount migrations outside the binary's
// working tree.
func Run(db *sql.DB) {
	dir := utils.GetEnvString("POSTGRES_MIGRATION_DIR", "internal/migration")
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("migration: cannot resolve working directory: %v", err)
		}
		dir = filepath.Join(wd, dir)
	}

	source := &migrate.FileMigrationSource{Dir: dir}
	applied, err := migrate.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		log.Fatalf("migration: applying payment schema from %s: %v", dir, err)
	}
	log.Printf("migration: payment schema up to date, %d applied", applied)
}
