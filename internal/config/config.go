// Package config loads the configuration of the mhdb command.
//
//spellchecker:words config
package config

//spellchecker:words embed errors path filepath strings github mhdb internal mhindex status store knadh koanf parsers yaml json providers rawbytes
import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/FAU-CDI/mhdb/pkg/store"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed default.yaml
var defaultConfig []byte

// EnvVar names the environment variable that can point to a configuration file.
const EnvVar = "MHDB_CONFIG"

// DefaultName is the name of the configuration file looked for in the home directory.
const DefaultName = ".mhdb.yaml"

// Engine names
const (
	EngineLevelDB = "leveldb"
	EngineSQLite  = "sqlite"
)

// Config is the configuration of the mhdb command.
type Config struct {
	Index Index `koanf:"index"`
	Log   Log   `koanf:"log"`
}

// Index configures where indexes are stored.
type Index struct {
	Base   string `koanf:"base"`   // base name of the index within a folder
	Engine string `koanf:"engine"` // persistence engine, one of the Engine constants
}

// Log configures the output of the command.
type Log struct {
	Pretty   bool `koanf:"pretty"`
	Verbose  bool `koanf:"verbose"`
	Progress bool `koanf:"progress"`
}

var (
	errUnknownEngine = errors.New("unknown engine")
	errInvalidBase   = errors.New("invalid base name")
	errUnknownFormat = errors.New("unknown configuration format")
)

// Default returns the built-in configuration.
func Default() (cfg Config) {
	cfg, err := load("")
	if err != nil {
		panic("config.Default: " + err.Error())
	}
	return cfg
}

// Load loads the built-in configuration and overlays the file at path on top of it.
// An empty path only loads the built-in configuration.
func Load(path string) (Config, error) {
	cfg, err := load(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func load(path string) (cfg Config, err error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return cfg, fmt.Errorf("%q: %w", path, errUnknownFormat)
		}

		if err := k.Load(file.Provider(path), parser); err != nil {
			return cfg, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the configuration file to use when none was given explicitly.
//
// It is the value of EnvVar when set, or DefaultName in the home directory when that file exists.
// Otherwise it returns the empty string.
func DefaultPath() string {
	if path := os.Getenv(EnvVar); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(home, DefaultName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Validate checks that cfg can be used.
func (cfg Config) Validate() error {
	if _, err := cfg.Engine(); err != nil {
		return err
	}
	if base := cfg.Index.Base; base == "" || strings.ContainsRune(base, mhindex.Separator) || mhindex.IsDigits(base) {
		return fmt.Errorf("%q: %w", base, errInvalidBase)
	}
	return nil
}

// Engine returns the persistence engine selected by cfg.
func (cfg Config) Engine() (store.Engine, error) {
	switch cfg.Index.Engine {
	case EngineLevelDB:
		return store.DiskEngine{}, nil
	case EngineSQLite:
		return store.SQLiteEngine{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Index.Engine, errUnknownEngine)
	}
}

// Options returns the index options described by cfg, reporting to st.
func (cfg Config) Options(st *status.Status) mhindex.Options {
	return mhindex.Options{
		Base:   cfg.Index.Base,
		Status: st,
	}
}

// StatusOptions returns the options for a status described by cfg.
func (cfg Config) StatusOptions() status.Options {
	return status.Options{
		Pretty:   cfg.Log.Pretty,
		Verbose:  cfg.Log.Verbose,
		Progress: cfg.Log.Progress,
	}
}
