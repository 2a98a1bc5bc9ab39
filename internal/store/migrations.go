package store

import (
	"fmt"
	"strings"
)

// migrate creates the schema if it does not exist and seeds the static
// pages. Statements are idempotent so migrate can run on every startup.
//
// The UNIQUE constraint on admins.email is load-bearing: the bootstrap
// endpoint's check-then-insert is racy under concurrent calls, and the
// constraint turns a double-create into a detectable duplicate error.
func (s *Store) migrate() error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	switch s.driver {
	case DriverMySQL:
		pk = "BIGINT PRIMARY KEY AUTO_INCREMENT"
	case DriverPostgres:
		pk = "BIGSERIAL PRIMARY KEY"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admins (
			id %s,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS services (
			id %s,
			title_en VARCHAR(255) NOT NULL,
			title_ar VARCHAR(255) NOT NULL,
			description_en TEXT NOT NULL,
			description_ar TEXT NOT NULL,
			icon VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL,
			sort_order INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pages (
			id %s,
			slug VARCHAR(255) UNIQUE NOT NULL,
			title_en VARCHAR(255) NOT NULL,
			title_ar VARCHAR(255) NOT NULL,
			content_en TEXT NOT NULL,
			content_ar TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS highlights (
			id %s,
			text_en VARCHAR(255) NOT NULL,
			text_ar VARCHAR(255) NOT NULL,
			icon VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL,
			sort_order INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS messages (
			id %s,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			is_read BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),

		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_services_sort ON services(sort_order)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// MySQL predates CREATE INDEX IF NOT EXISTS; a rerun reports
			// the index as a duplicate. Treat that as a no-op.
			if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return s.seedPages()
}

// seedPages inserts the fixed set of editable pages if they are missing.
func (s *Store) seedPages() error {
	seeds := []string{"about", "contact"}
	for _, slug := range seeds {
		var count int
		if err := s.db.Get(&count, s.rebind("SELECT COUNT(*) FROM pages WHERE slug = ?"), slug); err != nil {
			return fmt.Errorf("check page seed: %w", err)
		}
		if count > 0 {
			continue
		}
		q := s.rebind(`INSERT INTO pages (slug, title_en, title_ar, content_en, content_ar, updated_at)
			VALUES (?, '', '', '', '', CURRENT_TIMESTAMP)`)
		if _, err := s.db.Exec(q, slug); err != nil {
			return fmt.Errorf("seed page %q: %w", slug, err)
		}
	}
	return nil
}
