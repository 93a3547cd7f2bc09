package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.DBPath != "analyzer.db" {
		t.Errorf("DBPath = %q, want analyzer.db", c.DBPath)
	}
	if c.DefaultTopN != 25 {
		t.Errorf("DefaultTopN = %v, want 25", c.DefaultTopN)
	}
	if c.Tuning.AnchorCeilingMult != 20 {
		t.Errorf("AnchorCeilingMult = %v, want 20", c.Tuning.AnchorCeilingMult)
	}
	if c.Tuning.MinRobustSample != 5 {
		t.Errorf("MinRobustSample = %v, want 5", c.Tuning.MinRobustSample)
	}
	if c.Tuning.RetentionDays != 45 {
		t.Errorf("RetentionDays = %v, want 45", c.Tuning.RetentionDays)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultTopN != 25 {
		t.Errorf("DefaultTopN = %v, want default 25", c.DefaultTopN)
	}
}

func TestLoad_RoundTripAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyzer.json")

	c := Default()
	c.DefaultScope = "Aether"
	c.Tuning.ClampMult = 8
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	os.Setenv("MARKET_TOP_N", "50")
	defer os.Unsetenv("MARKET_TOP_N")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultScope != "Aether" {
		t.Errorf("DefaultScope = %q, want Aether", got.DefaultScope)
	}
	if got.Tuning.ClampMult != 8 {
		t.Errorf("ClampMult = %v, want 8", got.Tuning.ClampMult)
	}
	if got.DefaultTopN != 50 {
		t.Errorf("DefaultTopN = %v, want env override 50", got.DefaultTopN)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{nope"), 0644)
	if _, err := Load(path); err == nil {
		t.Errorf("Load(bad json) = nil error, want parse error")
	}
}
