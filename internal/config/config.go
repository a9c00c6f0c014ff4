package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config, projects and the audit log.
const DirName = ".insightloom"

// Global configuration structure.
type Global struct {
	ProjectsDir string `mapstructure:"projects_dir" yaml:"projects_dir"`
	// AuditDB is the SQLite audit log path. Empty disables auditing.
	AuditDB  string `mapstructure:"audit_db" yaml:"audit_db"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Profiling
	HistogramBins        int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	TopValues            int     `mapstructure:"top_values" yaml:"top_values"`
	IQRMultiplier        float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
	MaxRows              int     `mapstructure:"max_rows" yaml:"max_rows"`

	// Privacy and fairness
	PIISampleSize      int      `mapstructure:"pii_sample_size" yaml:"pii_sample_size"`
	PIIFileRows        int      `mapstructure:"pii_file_rows" yaml:"pii_file_rows"`
	DominanceThreshold float64  `mapstructure:"dominance_threshold" yaml:"dominance_threshold"`
	BiasKeywords       []string `mapstructure:"bias_keywords" yaml:"bias_keywords"`
	FairnessKeywords   []string `mapstructure:"fairness_keywords" yaml:"fairness_keywords"`

	// Number parsing
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
}

// Dir resolves ~/.insightloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.insightloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INSIGHTLOOM")
	v.AutomaticEnv()

	v.SetDefault("log_level", "warn")
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("top_values", 5)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("correlation_threshold", 0.5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("pii_sample_size", 50)
	v.SetDefault("pii_file_rows", 100)
	v.SetDefault("dominance_threshold", 0.75)
	v.SetDefault("bias_keywords", []string{"gender", "sex", "race", "ethnicity", "age_group"})
	v.SetDefault("fairness_keywords", []string{"gender", "sex", "race", "ethnicity", "age"})
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("thousands_separator", "")

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ProjectsDir == "" {
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	if !v.IsSet("audit_db") {
		c.AuditDB = filepath.Join(dir, "audit.db")
	}
	return &c, nil
}

// ParseOptions converts the separator settings for the dataset loader.
func (c *Global) ParseOptions() dataset.ParseOptions {
	first := func(s string) rune {
		if s == "" {
			return 0
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r
	}
	return dataset.ParseOptions{
		DecimalSeparator:   first(c.DecimalSeparator),
		ThousandsSeparator: first(c.ThousandsSeparator),
	}
}

// Set assigns a single key by its config name.
func (c *Global) Set(key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	unit := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > 1 {
			return 0, fmt.Errorf("invalid value for %s: %v (want 0..1)", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "projects_dir":
		c.ProjectsDir = val
	case "audit_db":
		c.AuditDB = val
	case "log_level":
		c.LogLevel = val
	case "histogram_bins":
		c.HistogramBins, err = atoi()
	case "top_values":
		c.TopValues, err = atoi()
	case "max_rows":
		c.MaxRows, err = atoi()
	case "pii_sample_size":
		c.PIISampleSize, err = atoi()
	case "pii_file_rows":
		c.PIIFileRows, err = atoi()
	case "iqr_multiplier":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f <= 0 {
			return fmt.Errorf("invalid float for iqr_multiplier: %v", val)
		}
		c.IQRMultiplier = f
	case "correlation_threshold":
		c.CorrelationThreshold, err = unit()
	case "dominance_threshold":
		c.DominanceThreshold, err = unit()
	case "bias_keywords":
		c.BiasKeywords = splitList(val)
	case "fairness_keywords":
		c.FairnessKeywords = splitList(val)
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
