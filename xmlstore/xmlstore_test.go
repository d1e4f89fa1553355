package xmlstore

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.xml")

	cells := []Cell{
		{Name: "A1", Contents: "5"},
		{Name: "B1", Contents: "=A1*2"},
		{Name: "C1", Contents: "hello"},
	}
	if err := Save(path, "v3", cells); err != nil {
		t.Fatalf("Save: %v", err)
	}

	version, got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if version != "v3" {
		t.Fatalf("version = %q, want v3", version)
	}
	if !reflect.DeepEqual(got, cells) {
		t.Fatalf("cells = %+v, want %+v", got, cells)
	}
}

func TestGetSavedVersionWithoutParsingCells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.xml")
	if err := Save(path, "v9", []Cell{{Name: "A1", Contents: "1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	version, err := GetSavedVersion(path)
	if err != nil {
		t.Fatalf("GetSavedVersion: %v", err)
	}
	if version != "v9" {
		t.Fatalf("version = %q, want v9", version)
	}
}

func TestLoadMissingFileIsReadWriteError(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.xml"))
	if _, ok := err.(*ReadWriteError); !ok {
		t.Fatalf("err = %v, want *ReadWriteError", err)
	}
}
