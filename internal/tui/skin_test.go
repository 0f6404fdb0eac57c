package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSkinLayersOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.yml")
	if err := os.WriteFile(path, []byte("tile: \"#FFFFFF\"\nempty: \"#000000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSkin(path)
	if err != nil {
		t.Fatalf("LoadSkin: %v", err)
	}
	if s.Tile != "#FFFFFF" || s.Empty != "#000000" {
		t.Fatalf("overrides not applied: %+v", s)
	}
	if s.Accent != DefaultSkin.Accent || s.Expired != DefaultSkin.Expired {
		t.Fatalf("defaults not kept: %+v", s)
	}
}

func TestInitializeSkin(t *testing.T) {
	t.Cleanup(func() { activeSkin = DefaultSkin })

	dir := t.TempDir()
	skins := filepath.Join(dir, "skins")
	if err := os.MkdirAll(skins, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(skins, "night.yml"), []byte("tile: \"#8888FF\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitializeSkin("night", dir); err != nil {
		t.Fatalf("InitializeSkin(night): %v", err)
	}
	if got := ActiveSkin().Tile; got != "#8888FF" {
		t.Fatalf("active tile = %q", got)
	}

	if err := InitializeSkin("missing", dir); err == nil {
		t.Fatal("expected error for missing skin")
	}
	if got := ActiveSkin().Tile; got != "#8888FF" {
		t.Fatalf("failed load replaced active skin: %q", got)
	}

	if err := InitializeSkin("default", dir); err != nil {
		t.Fatalf("InitializeSkin(default): %v", err)
	}
	if ActiveSkin() != DefaultSkin {
		t.Fatal("default skin not restored")
	}
}

func TestLoadSkinRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("tile: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSkin(path); err == nil {
		t.Fatal("expected parse error")
	}
}
