package loom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config holds the construction-time options for a logger. The zero value is
// not usable directly; start from DefaultConfig and override fields, or load
// one via LoadConfig/ParseConfig. On repeat GetOrCreate calls for an already
// registered name the config is ignored.
type Config struct {
	// Name is the registry key and the label embedded in every record.
	Name string `koanf:"name" validate:"required"`

	// Level is the minimum severity recorded by the logger ("debug", "info",
	// "warning", "error", "critical"). Empty means "info".
	Level string `koanf:"level"`

	// LogDir is the directory for file output, created if absent.
	LogDir string `koanf:"log_dir"`

	// LogFile is the file name within LogDir. Empty means "<name>.log".
	LogFile string `koanf:"log_file"`

	// MaxFileSizeMB is the rotation threshold in megabytes. Zero means the
	// default; negative values fail validation.
	MaxFileSizeMB int `koanf:"max_file_size_mb" validate:"gte=0"`

	// BackupCount is the maximum number of retained rotated files. Zero
	// means the default; negative values fail validation.
	BackupCount int `koanf:"backup_count" validate:"gte=0"`

	EnableConsole     bool `koanf:"enable_console"`
	EnableFile        bool `koanf:"enable_file"`
	OneLineFileFormat bool `koanf:"one_line_file_format"`
}

// DefaultConfig returns the configuration a logger gets when only a name is
// supplied: INFO level, both sinks enabled, one-line file format, 10 MB
// rotation threshold and 5 retained backups under ./logs.
func DefaultConfig(name string) Config {
	return Config{
		Name:              name,
		Level:             "info",
		LogDir:            DefaultLogDir,
		MaxFileSizeMB:     DefaultMaxFileSizeMB,
		BackupCount:       DefaultBackupCount,
		EnableConsole:     true,
		EnableFile:        true,
		OneLineFileFormat: true,
	}
}

// normalized fills unset fields with their defaults. It does not validate.
func (c Config) normalized() Config {
	if c.Level == emptyString {
		c.Level = "info"
	}
	if c.LogDir == emptyString {
		c.LogDir = DefaultLogDir
	}
	if c.LogFile == emptyString {
		c.LogFile = c.Name + ".log"
	}
	if c.MaxFileSizeMB == 0 {
		c.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if c.BackupCount == 0 {
		c.BackupCount = DefaultBackupCount
	}
	return c
}

// maxFileSizeBytes converts the megabyte threshold to bytes.
func (c Config) maxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// filePath is the active log file location.
func (c Config) filePath() string {
	return filepath.Join(c.LogDir, c.LogFile)
}

// LoadConfig reads a logger configuration from a YAML or JSON file. The
// format is detected from the file extension (.yaml, .yml or .json). Options
// absent from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	format, err := detectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data, format)
}

// ParseConfig decodes a logger configuration from raw bytes in the given
// format ("yaml" or "json"). Options absent from the data keep their
// DefaultConfig values.
func ParseConfig(data []byte, format string) (Config, error) {
	var parser koanf.Parser
	switch strings.ToLower(format) {
	case "yaml", "yml":
		parser = kyaml.Parser()
	case "json":
		parser = kjson.Parser()
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their default
	// values, including the default-true sink toggles.
	cfg := DefaultConfig(emptyString)
	if err := k.UnmarshalWithConf(emptyString, &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return emptyString, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}
