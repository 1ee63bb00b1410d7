package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hilo/internal/irpack"
	"hilo/internal/layout"
)

// ConfigFileName is looked up from the input's directory upwards.
const ConfigFileName = "hilo.toml"

// EmitKind selects the output format of Lower.
type EmitKind string

const (
	EmitLL   EmitKind = "ll"   // printed ll dialect
	EmitLLVM EmitKind = "llvm" // LLVM assembly
	EmitPack EmitKind = "pack" // msgpack snapshot of the lowered module
)

// Extension returns the file suffix used for outputs of kind k.
func (k EmitKind) Extension() string {
	switch k {
	case EmitLLVM:
		return ".ll"
	case EmitPack:
		return ".low" + irpack.Extension
	default:
		return ".llir"
	}
}

// OutputPath derives the default output file for input.
func OutputPath(input string, k EmitKind) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + k.Extension()
}

// ParseEmitKind validates s.
func ParseEmitKind(s string) (EmitKind, error) {
	switch k := EmitKind(strings.ToLower(strings.TrimSpace(s))); k {
	case EmitLL, EmitLLVM, EmitPack:
		return k, nil
	default:
		return "", fmt.Errorf("invalid emit kind: %q (expected: ll|llvm|pack)", s)
	}
}

// Config is the content of hilo.toml.
type Config struct {
	Target TargetConfig `toml:"target"`
	Lower  LowerConfig  `toml:"lower"`
}

type TargetConfig struct {
	Triple      string `toml:"triple"`
	PointerBits int    `toml:"pointer_bits"`
	IndexBits   int    `toml:"index_bits"`
}

type LowerConfig struct {
	MaxIterations int      `toml:"max_iterations"`
	Emit          EmitKind `toml:"emit"`
}

// DefaultConfig targets x86_64-linux-gnu and emits the ll dialect.
func DefaultConfig() Config {
	t := layout.X86_64LinuxGNU()
	return Config{
		Target: TargetConfig{Triple: t.Triple, PointerBits: t.PointerBits(), IndexBits: t.IndexWidth()},
		Lower:  LowerConfig{Emit: EmitLL},
	}
}

// LayoutTarget converts the target section.
func (c Config) LayoutTarget() layout.Target {
	return layout.Target{
		Triple:    c.Target.Triple,
		PtrSize:   c.Target.PointerBits / 8,
		PtrAlign:  c.Target.PointerBits / 8,
		IndexBits: c.Target.IndexBits,
	}
}

// FindConfig walks from startDir up to the file system root looking for
// hilo.toml.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig reads path on top of DefaultConfig. Keys that are absent keep
// their defaults; unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("target", "triple") && strings.TrimSpace(cfg.Target.Triple) == "" {
		return Config{}, fmt.Errorf("%s: [target].triple must not be empty", path)
	}
	if meta.IsDefined("target", "pointer_bits") && (cfg.Target.PointerBits <= 0 || cfg.Target.PointerBits%8 != 0) {
		return Config{}, fmt.Errorf("%s: [target].pointer_bits must be a positive multiple of 8", path)
	}
	if meta.IsDefined("target", "index_bits") && cfg.Target.IndexBits <= 0 {
		return Config{}, fmt.Errorf("%s: [target].index_bits must be positive", path)
	}
	if meta.IsDefined("lower", "max_iterations") && cfg.Lower.MaxIterations <= 0 {
		return Config{}, fmt.Errorf("%s: [lower].max_iterations must be positive", path)
	}
	if meta.IsDefined("lower", "emit") {
		kind, err := ParseEmitKind(string(cfg.Lower.Emit))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [lower].emit: %w", path, err)
		}
		cfg.Lower.Emit = kind
	}
	return cfg, nil
}

// ResolveConfig loads explicit when set, otherwise the nearest hilo.toml
// above startDir, otherwise the defaults. It returns the path used, if any.
func ResolveConfig(explicit, startDir string) (Config, string, error) {
	path := explicit
	if path == "" {
		found, ok, err := FindConfig(startDir)
		if err != nil {
			return Config{}, "", err
		}
		if !ok {
			return DefaultConfig(), "", nil
		}
		path = found
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}
