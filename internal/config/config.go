package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Substance join modes.
const (
	MatchExact          = "exact"
	MatchChemicalPrefix = "chemical_prefix"
)

// Default input and output locations, matching the layout of the monthly
// prescribing extract.
const (
	DefaultDataDir       = "dw-data"
	DefaultPrescriptions = "201701scripts_sample.csv.gz"
	DefaultPractices     = "practices.csv.gz"
	DefaultSubstances    = "chem.csv.gz"
	DefaultOutput        = "practices_flagged.csv"
)

// InputRoles lists the input roles in load order.
var InputRoles = []string{"prescriptions", "practices", "chem"}

// Config holds all runtime configuration for an opioidflag run.
type Config struct {
	ConfigFile string
	LogFormat  string // "text" or "json"

	ZScoreCutoff   int
	RawCountCutoff int

	DataDir           string
	PrescriptionsPath string
	PracticesPath     string
	SubstancesPath    string
	OutputPath        string

	OpioidTerms    []string // empty means the built-in vocabulary
	StdDDOF        int      // 0: population std dev, 1: sample std dev
	SubstanceMatch string   // MatchExact or MatchChemicalPrefix
}

// yamlConfig is the on-disk YAML structure. Cutoffs are flags only.
type yamlConfig struct {
	DataDir        string   `yaml:"data_dir"`
	Prescriptions  string   `yaml:"prescriptions"`
	Practices      string   `yaml:"practices"`
	Chem           string   `yaml:"chem"`
	Output         string   `yaml:"output"`
	OpioidTerms    []string `yaml:"opioid_terms"`
	StdDDOF        *int     `yaml:"std_ddof"`
	SubstanceMatch string   `yaml:"substance_match"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		LogFormat:         "text",
		ZScoreCutoff:      3,
		RawCountCutoff:    50,
		DataDir:           DefaultDataDir,
		PrescriptionsPath: DefaultPrescriptions,
		PracticesPath:     DefaultPractices,
		SubstancesPath:    DefaultSubstances,
		OutputPath:        DefaultOutput,
		SubstanceMatch:    MatchExact,
	}
}

// LoadFromFile reads a YAML config file and merges its non-empty values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIf(&c.DataDir, yc.DataDir)
	setIf(&c.PrescriptionsPath, yc.Prescriptions)
	setIf(&c.PracticesPath, yc.Practices)
	setIf(&c.SubstancesPath, yc.Chem)
	setIf(&c.OutputPath, yc.Output)
	setIf(&c.SubstanceMatch, strings.ToLower(strings.TrimSpace(yc.SubstanceMatch)))
	if yc.StdDDOF != nil {
		c.StdDDOF = *yc.StdDDOF
	}
	if len(yc.OpioidTerms) > 0 {
		c.OpioidTerms = yc.OpioidTerms
	}
	return c.Validate()
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks option values and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.StdDDOF != 0 && c.StdDDOF != 1 {
		return fmt.Errorf("std_ddof must be 0 or 1, got %d", c.StdDDOF)
	}
	switch c.SubstanceMatch {
	case MatchExact, MatchChemicalPrefix:
	default:
		return fmt.Errorf("unknown substance_match %q (want %q or %q)", c.SubstanceMatch, MatchExact, MatchChemicalPrefix)
	}
	for _, term := range c.OpioidTerms {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("opioid_terms must not contain empty entries")
		}
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// ValidateInputs checks that all three input files are accessible, reporting
// the first missing one in InputRoles order.
func (c *Config) ValidateInputs() error {
	paths := c.Inputs()
	for _, role := range InputRoles {
		if _, err := os.Stat(paths[role]); err != nil {
			return fmt.Errorf("%s input not accessible: %w", role, err)
		}
	}
	return nil
}

// Inputs returns the resolved input paths keyed by role. Relative input
// paths are resolved against DataDir.
func (c *Config) Inputs() map[string]string {
	return map[string]string{
		"prescriptions": c.resolve(c.PrescriptionsPath),
		"practices":     c.resolve(c.PracticesPath),
		"chem":          c.resolve(c.SubstancesPath),
	}
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.DataDir == "" {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
