package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/lunalog/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

type migrationFile struct {
	Version int
	Name    string
	SQL     string
}

// Migrate applies pending migrations from the embedded set in version order
// and returns the file names it applied.
func Migrate(database *gorm.DB) ([]string, error) {
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := readMigrationFiles(embeddedmigrations.Files)
	if err != nil {
		return nil, err
	}

	var appliedRows []string
	if err := database.Table("schema_migrations").Pluck("version", &appliedRows).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	applied := make(map[string]bool, len(appliedRows))
	for _, version := range appliedRows {
		applied[version] = true
	}

	names := make([]string, 0)
	for _, file := range files {
		version := strconv.Itoa(file.Version)
		if applied[version] {
			continue
		}
		if err := applyMigrationFile(database, version, file); err != nil {
			return names, err
		}
		names = append(names, file.Name)
	}
	return names, nil
}

func readMigrationFiles(source fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(entries))
	seen := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationNamePattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		if existing, exists := seen[version]; exists {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, existing, entry.Name())
		}
		seen[version] = entry.Name()

		raw, err := fs.ReadFile(source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{Version: version, Name: entry.Name(), SQL: string(raw)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}

func applyMigrationFile(database *gorm.DB, version string, file migrationFile) error {
	return database.Transaction(func(tx *gorm.DB) error {
		statements := splitStatements(file.SQL)
		if len(statements) == 0 {
			return errors.New("migration has no SQL statements")
		}

		for _, statement := range statements {
			exists, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", file.Name, err)
			}
			if exists {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s: %w", file.Name, err)
			}
		}

		return tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, version, file.Name).Error
	})
}

func splitStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded makes ADD COLUMN statements idempotent for databases
// whose columns were created outside the migration table.
func columnAlreadyAdded(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if len(matches) != 3 {
		return false, nil
	}
	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(existing.Name, column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
