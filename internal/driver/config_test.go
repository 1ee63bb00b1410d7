package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
[target]
triple = "aarch64-linux-gnu"
index_bits = 32

[lower]
max_iterations = 8
emit = "LLVM"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Target.Triple != "aarch64-linux-gnu" || cfg.Target.IndexBits != 32 {
		t.Errorf("unexpected target %+v", cfg.Target)
	}
	if cfg.Target.PointerBits != 64 {
		t.Errorf("pointer_bits should keep its default, got %d", cfg.Target.PointerBits)
	}
	if cfg.Lower.MaxIterations != 8 || cfg.Lower.Emit != EmitLLVM {
		t.Errorf("unexpected lower section %+v", cfg.Lower)
	}
	lt := cfg.LayoutTarget()
	if lt.PtrSize != 8 || lt.IndexWidth() != 32 {
		t.Errorf("unexpected layout target %+v", lt)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, content, want string
	}{
		{"syntax", "[target\n", "failed to parse TOML"},
		{"unknown key", "[target]\nendianness = \"big\"\n", "unknown keys"},
		{"empty triple", "[target]\ntriple = \" \"\n", "[target].triple"},
		{"pointer bits", "[target]\npointer_bits = 12\n", "[target].pointer_bits"},
		{"iterations", "[lower]\nmax_iterations = 0\n", "[lower].max_iterations"},
		{"emit", "[lower]\nemit = \"asm\"\n", "[lower].emit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveConfigSearchesUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ConfigFileName), "[lower]\nemit = \"pack\"\n")

	cfg, used, err := ResolveConfig("", nested)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if used != filepath.Join(root, ConfigFileName) {
		t.Errorf("expected the root config, got %q", used)
	}
	if cfg.Lower.Emit != EmitPack {
		t.Errorf("expected emit=pack, got %q", cfg.Lower.Emit)
	}
}

func TestParseEmitKind(t *testing.T) {
	for _, s := range []string{"ll", "llvm", "pack", " LL "} {
		if _, err := ParseEmitKind(s); err != nil {
			t.Errorf("ParseEmitKind(%q): %v", s, err)
		}
	}
	if _, err := ParseEmitKind("obj"); err == nil {
		t.Errorf("expected obj to be rejected")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		kind EmitKind
		want string
	}{
		{EmitLL, filepath.Join("out", "main.llir")},
		{EmitLLVM, filepath.Join("out", "main.ll")},
		{EmitPack, filepath.Join("out", "main.low.hlpack")},
	}
	for _, tt := range tests {
		if got := OutputPath(filepath.Join("out", "main.hlpack"), tt.kind); got != tt.want {
			t.Errorf("OutputPath(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
