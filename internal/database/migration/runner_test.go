package migration

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_applications.sql": {Data: []byte("CREATE TABLE b (id int);")},
		"V1__init.sql":             {Data: []byte("CREATE TABLE a (id int);")},
		"README.md":                {Data: []byte("not a migration")},
	}

	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %d, %d", migs[0].Version, migs[1].Version)
	}
	if migs[0].Name != "init" {
		t.Fatalf("unexpected name %q", migs[0].Name)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("checksums not computed per file")
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	src := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}

	if _, err := loadMigrations(src); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}

func TestLoadMigrations_EmptyFile(t *testing.T) {
	src := fstest.MapFS{
		"V1__empty.sql": {Data: []byte("   \n")},
	}

	if _, err := loadMigrations(src); err == nil {
		t.Fatalf("expected empty file error")
	}
}
