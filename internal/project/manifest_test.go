package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingManifest(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing manifest must not be an error: %v", err)
	}
	if ok || m != nil {
		t.Error("expected ok=false for a missing manifest")
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	content := `
name = "demo-service"
extensions = [".py"]
ignore_dirs = ["migrations", "fixtures"]
`
	if err := os.WriteFile(filepath.Join(root, ManifestFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(root)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the manifest to be found")
	}
	if m.Name != "demo-service" {
		t.Errorf("expected name demo-service, got %s", m.Name)
	}
	if !reflect.DeepEqual(m.IgnoreDirs, []string{"migrations", "fixtures"}) {
		t.Errorf("unexpected ignore dirs: %v", m.IgnoreDirs)
	}
}

func TestLoadDefaultsNameToRootBase(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestFile), []byte(`ignore_dirs = ["x"]`), 0644); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(root)
	if err != nil || !ok {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != filepath.Base(root) {
		t.Errorf("expected name defaulted to root base, got %s", m.Name)
	}
}

func TestLoadMalformedManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestFile), []byte(`name = [unclosed`), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Load(root)
	if err == nil {
		t.Error("expected an error for a malformed manifest")
	}
}

func TestApplyTo(t *testing.T) {
	m := &Manifest{
		Extensions: []string{".pyi"},
		IgnoreDirs: []string{"build", "venv"},
	}

	exts, ignores := m.ApplyTo([]string{".py"}, []string{"venv", ".git"})

	if !reflect.DeepEqual(exts, []string{".pyi"}) {
		t.Errorf("expected extensions replaced, got %v", exts)
	}
	if !reflect.DeepEqual(ignores, []string{"venv", ".git", "build"}) {
		t.Errorf("expected deduplicated append, got %v", ignores)
	}
}

func TestApplyToWithoutOverrides(t *testing.T) {
	m := &Manifest{}

	exts, ignores := m.ApplyTo([]string{".py"}, []string{".git"})
	if !reflect.DeepEqual(exts, []string{".py"}) || !reflect.DeepEqual(ignores, []string{".git"}) {
		t.Errorf("expected inputs unchanged, got %v %v", exts, ignores)
	}
}
