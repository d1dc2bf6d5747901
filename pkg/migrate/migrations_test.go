package migrate_test

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/shopdesk-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
	if err := migrate.ValidateFS(migrate.Embedded()); err != nil {
		t.Fatalf("ValidateFS(embedded): %v", err)
	}
}

func TestEmbeddedMatchesSourceTree(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatal(err)
	}
	embedded, err := fs.Glob(migrate.Source(migrate.DefaultDir), "*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(onDisk) != len(embedded) {
		t.Fatalf("embedded %d migrations, tree has %d", len(embedded), len(onDisk))
	}
	for i, path := range onDisk {
		if filepath.Base(path) != embedded[i] {
			t.Errorf("migration %d: tree %s, embedded %s", i, filepath.Base(path), embedded[i])
		}
	}
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_pricings",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_pricings_currency ON product_pricings (product_id, currency_code)",
		"CREATE TABLE IF NOT EXISTS product_categories",
		"CREATE TABLE IF NOT EXISTS product_upsells",
		"CREATE TABLE IF NOT EXISTS product_cross_sells",
		"CREATE TABLE IF NOT EXISTS product_variants",
		"option_values TEXT NOT NULL",
		"DROP TABLE IF EXISTS products;",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestIdentityMigrationEnforcesUniqueness(t *testing.T) {
	stores := readMigration(t, "*_create_users_and_stores.sql")
	for _, sub := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_user_id ON stores (user_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_store_url ON stores (store_url)",
		"currency VARCHAR(3) NOT NULL DEFAULT 'USD'",
	} {
		if !strings.Contains(stores, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	customers := readMigration(t, "*_create_customers.sql")
	if !strings.Contains(customers, "idx_customers_store_email ON customers (store_id, email)") {
		t.Error("customers must be unique per store and email")
	}
}

func TestKYCMigrationConstrainsStatus(t *testing.T) {
	content := readMigration(t, "*_create_kyc.sql")
	if !strings.Contains(content, "'NOT_STARTED', 'IN_PROGRESS', 'SUBMITTED', 'APPROVED', 'REJECTED'") {
		t.Error("kyc status check constraint missing")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	migrations := migrate.Embedded()
	matches, err := fs.Glob(migrations, pattern)
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := fs.ReadFile(migrations, matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
