package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/armforge/armforge/internal/synth/partition"
)

// Config represents the armforge configuration
type Config struct {
	Stack string      `mapstructure:"stack"`
	Synth SynthConfig `mapstructure:"synth"`
	Out   OutConfig   `mapstructure:"out"`
}

// SynthConfig configures the partitioning engine
type SynthConfig struct {
	// Strategy is one of "tier-based", "type-based", "dependency-chain".
	Strategy string `mapstructure:"strategy"`
	// MaxDocumentSize is the per-document size ceiling in bytes.
	MaxDocumentSize int `mapstructure:"max_document_size"`
	// MaxResourcesPerDocument is the per-document resource-count ceiling.
	MaxResourcesPerDocument int `mapstructure:"max_resources_per_document"`
	// LegacyAffinitySplit selects the pre-metadata splitting path.
	LegacyAffinitySplit bool `mapstructure:"legacy_affinity_split"`
}

// OutConfig configures write-out
type OutConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads the configuration from armforge.yml or armforge.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("synth.strategy", "tier-based")
	v.SetDefault("synth.max_document_size", partition.DefaultMaxDocumentSize)
	v.SetDefault("synth.max_resources_per_document", partition.DefaultMaxResourcesPerDocument)
	v.SetDefault("out.dir", "build/templates")

	// Set config name and paths
	v.SetConfigName("armforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// PartitionOptions translates the config into engine options.
func (c *Config) PartitionOptions() (partition.Options, error) {
	opts := partition.Options{
		MaxDocumentSize:         c.Synth.MaxDocumentSize,
		MaxResourcesPerDocument: c.Synth.MaxResourcesPerDocument,
		LegacyAffinitySplit:     c.Synth.LegacyAffinitySplit,
	}
	switch c.Synth.Strategy {
	case "", "tier-based":
		opts.Strategy = partition.NewTierBased()
	case "type-based":
		opts.Strategy = &partition.TypeBased{}
	case "dependency-chain":
		opts.Strategy = &partition.DependencyChain{}
	default:
		return partition.Options{}, fmt.Errorf("unknown grouping strategy %q (want tier-based, type-based, or dependency-chain)", c.Synth.Strategy)
	}
	return opts, nil
}

func validateConfig(c *Config) error {
	if c.Synth.MaxDocumentSize < 0 {
		return fmt.Errorf("synth.max_document_size must not be negative")
	}
	if c.Synth.MaxResourcesPerDocument < 0 {
		return fmt.Errorf("synth.max_resources_per_document must not be negative")
	}
	return nil
}
