package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orphancare/platform-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestPledgeMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_donation_pledges.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS donation_pledges",
		"FOREIGN KEY (request_id) REFERENCES inventory_requests(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"CHECK (status IN ('Pending', 'Received', 'Cancelled'))",
		"DROP TABLE IF EXISTS donation_pledges",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory",
		"CHECK (quantity >= 0)",
		"CONSTRAINT inventory_name_category_key UNIQUE (item_name, category)",
		"DROP TABLE IF EXISTS inventory",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMovementMigrationIsAppendOnlyShape(t *testing.T) {
	content := readMigration(t, "*_create_inventory_movements.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_movements",
		"CHECK (movement_type IN ('IN', 'OUT'))",
		"FOREIGN KEY (inventory_id) REFERENCES inventory(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
