package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anchorvoxel/pkg/kernel"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	policy, err := cfg.OutsidePolicy()
	if err != nil || policy != kernel.AsOff {
		t.Errorf("OutsidePolicy() = %v, %v; want off", policy, err)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Outline.NumberErosions != 1 || cfg.Index.MaxChildren != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumCores = 3
	cfg.Kernel.OutsidePolicy = "ignore"
	cfg.Outline.NumberErosions = 2
	cfg.Cluster.DilationDistance = 4
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Processing.NumCores != 3 || loaded.Outline.NumberErosions != 2 || loaded.Cluster.DilationDistance != 4 {
		t.Errorf("loaded config = %+v", loaded)
	}
	if policy, _ := loaded.OutsidePolicy(); policy != kernel.IgnoreOutside {
		t.Errorf("policy = %v, want ignore", policy)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "outline:\n  numberErosions: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Outline.NumberErosions != 3 {
		t.Errorf("numberErosions = %d, want 3", cfg.Outline.NumberErosions)
	}
	if !cfg.Outline.OutlineAtBoundary || cfg.Processing.Threshold != 0.5 {
		t.Error("unset fields should keep their defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"cores", func(c *Config) { c.Processing.NumCores = 0 }, "numCores"},
		{"threshold", func(c *Config) { c.Processing.Threshold = 1.5 }, "threshold"},
		{"policy", func(c *Config) { c.Kernel.OutsidePolicy = "maybe" }, "outsidePolicy"},
		{"erosions", func(c *Config) { c.Outline.NumberErosions = 0 }, "numberErosions"},
		{"dilation", func(c *Config) { c.Cluster.DilationDistance = -1 }, "dilationDistance"},
		{"index", func(c *Config) { c.Index.MaxChildren = 4 }, "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("kernel:\n  outsidePolicy: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"processing:", "outsidePolicy: \"off\"", "numberErosions: 1", "maxChildren: 10"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("default config file lacks %q:\n%s", key, data)
		}
	}
}
