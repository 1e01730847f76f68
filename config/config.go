package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jonesrussell/north-cloud/jsonld-quality/dataset"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/prescore"
	"github.com/jonesrussell/north-cloud/jsonld-quality/quality"
	"github.com/jonesrussell/north-cloud/jsonld-quality/schema"
)

// Default configuration values.
const (
	defaultConfigPath   = "config.yml"
	maxBatchConcurrency = 256
)

// Config holds the whole configuration.
type Config struct {
	Logging   logger.Config   `yaml:"logging"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Quality   QualityConfig   `yaml:"quality"`
	Batch     BatchConfig     `yaml:"batch"`
}

// DiscoveryConfig configures URL pre-scoring and selection.
type DiscoveryConfig struct {
	MinPreScore float64 `env:"LDQ_MIN_PRE_SCORE" yaml:"min_pre_score"`
	// TierCaps is the maximum number of selected URLs per domain, keyed by tier name.
	TierCaps          map[string]int          `yaml:"tier_caps"`
	UniversalPatterns []WeightedPatternConfig `yaml:"universal_patterns"`
	// ContentTypes are tried in order.
	ContentTypes           []ContentTypeConfig `yaml:"content_types"`
	ExcludePatterns        []string            `yaml:"exclude_patterns"`
	IgnoreExtensions       []string            `yaml:"ignore_extensions"`
	TrackingParams         []string            `yaml:"tracking_params"`
	AIPriorityContentTypes []string            `yaml:"ai_priority_content_types"`
	MaxURLLength           int                 `yaml:"max_url_length"`
}

// WeightedPatternConfig is one universal priority pattern.
type WeightedPatternConfig struct {
	Pattern string  `yaml:"pattern"`
	Points  float64 `yaml:"points"`
}

// ContentTypeConfig lists the path patterns of one content type.
type ContentTypeConfig struct {
	Type     string   `yaml:"type"`
	Patterns []string `yaml:"patterns"`
}

// QualityConfig configures structured data scoring.
type QualityConfig struct {
	MinScore float64 `env:"LDQ_MIN_SCORE" yaml:"min_score"`
	// AIPriorityTypes replaces the built-in AI-priority schema types when set.
	AIPriorityTypes []string `yaml:"ai_priority_types"`
	// GoogleRequired overrides the Google-required property subset per schema type.
	GoogleRequired map[string][]string `yaml:"google_required"`
}

// BatchConfig configures page evaluation batches.
type BatchConfig struct {
	Concurrency int `env:"LDQ_CONCURRENCY" yaml:"concurrency"`
}

// Load loads the configuration at path. An empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	return load(path)
}

// LoadDefaultPath loads CONFIG_PATH, or config.yml when it is unset.
func LoadDefaultPath() (*Config, error) {
	return Load(GetConfigPath(defaultConfigPath))
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Logging.SetDefaults()
	setDiscoveryDefaults(&cfg.Discovery)
	setQualityDefaults(&cfg.Quality)
	setBatchDefaults(&cfg.Batch)
}

func setDiscoveryDefaults(d *DiscoveryConfig) {
	base := prescore.DefaultConfig()
	if d.MinPreScore == 0 {
		d.MinPreScore = dataset.DefaultMinPreScore
	}
	defaults := dataset.DefaultSelectionPolicy().TierCaps
	if d.TierCaps == nil {
		d.TierCaps = make(map[string]int, len(defaults))
	}
	// Tiers missing from the file keep their default cap.
	for tier, limit := range defaults {
		if _, ok := d.TierCaps[string(tier)]; !ok {
			d.TierCaps[string(tier)] = limit
		}
	}
	if len(d.UniversalPatterns) == 0 {
		for _, p := range base.Universal {
			d.UniversalPatterns = append(d.UniversalPatterns, WeightedPatternConfig{Pattern: p.Pattern, Points: p.Points})
		}
	}
	if len(d.ContentTypes) == 0 {
		for _, ct := range base.ContentTypes {
			d.ContentTypes = append(d.ContentTypes, ContentTypeConfig{
				Type:     string(ct.Type),
				Patterns: slices.Clone(ct.Patterns),
			})
		}
	}
	if len(d.ExcludePatterns) == 0 {
		d.ExcludePatterns = base.Exclude
	}
	if len(d.IgnoreExtensions) == 0 {
		d.IgnoreExtensions = base.IgnoreExtensions
	}
	if len(d.TrackingParams) == 0 {
		d.TrackingParams = base.TrackingParams
	}
	if len(d.AIPriorityContentTypes) == 0 {
		for _, ct := range base.AIPriorityContentTypes {
			d.AIPriorityContentTypes = append(d.AIPriorityContentTypes, string(ct))
		}
	}
	if d.MaxURLLength == 0 {
		d.MaxURLLength = base.MaxURLLength
	}
}

func setQualityDefaults(q *QualityConfig) {
	if q.MinScore == 0 {
		q.MinScore = quality.DefaultMinScore
	}
}

func setBatchDefaults(b *BatchConfig) {
	if b.Concurrency == 0 {
		b.Concurrency = dataset.DefaultConcurrency
	}
}

// Validate reports every configuration error, each wrapped as a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.Discovery.validate()...)
	errs = append(errs, c.Quality.validate()...)
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > maxBatchConcurrency {
		errs = append(errs, &ValidationError{
			Field:   "batch.concurrency",
			Message: fmt.Sprintf("must be between 1 and %d", maxBatchConcurrency),
		})
	}
	return errors.Join(errs...)
}

func (d *DiscoveryConfig) validate() []error {
	var errs []error
	if err := ValidateRange("discovery.min_pre_score", d.MinPreScore, 0, prescore.TotalMax); err != nil {
		errs = append(errs, err)
	}
	for _, name := range slices.Sorted(maps.Keys(d.TierCaps)) {
		if _, err := prescore.ParseTier(name); err != nil {
			errs = append(errs, &ValidationError{Field: "discovery.tier_caps." + name, Message: err.Error()})
			continue
		}
		if d.TierCaps[name] < 0 {
			errs = append(errs, &ValidationError{Field: "discovery.tier_caps." + name, Message: "cannot be negative"})
		}
	}
	if err := d.PreScoreConfig().Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "discovery", Message: err.Error()})
	}
	return errs
}

func (q *QualityConfig) validate() []error {
	var errs []error
	if err := ValidateRange("quality.min_score", q.MinScore, 0, quality.MaxScore); err != nil {
		errs = append(errs, err)
	}
	if _, err := schema.New(schema.Catalog(), q.RegistryOptions()...); err != nil {
		errs = append(errs, &ValidationError{Field: "quality", Message: err.Error()})
	}
	return errs
}

// PreScoreConfig converts the discovery section for prescore.NewScorer.
func (c *Config) PreScoreConfig() prescore.Config {
	return c.Discovery.PreScoreConfig()
}

// PreScoreConfig converts the section for prescore.NewScorer.
func (d *DiscoveryConfig) PreScoreConfig() prescore.Config {
	cfg := prescore.Config{
		Exclude:          slices.Clone(d.ExcludePatterns),
		IgnoreExtensions: slices.Clone(d.IgnoreExtensions),
		TrackingParams:   slices.Clone(d.TrackingParams),
		MaxURLLength:     d.MaxURLLength,
	}
	for _, p := range d.UniversalPatterns {
		cfg.Universal = append(cfg.Universal, prescore.WeightedPattern{Pattern: p.Pattern, Points: p.Points})
	}
	for _, ct := range d.ContentTypes {
		cfg.ContentTypes = append(cfg.ContentTypes, prescore.ContentTypePatterns{
			Type:     prescore.ContentType(ct.Type),
			Patterns: slices.Clone(ct.Patterns),
		})
	}
	for _, ct := range d.AIPriorityContentTypes {
		cfg.AIPriorityContentTypes = append(cfg.AIPriorityContentTypes, prescore.ContentType(ct))
	}
	return cfg
}

// SelectionPolicy converts the minimum pre-score and tier caps.
// Unknown tier names are skipped; Validate reports them.
func (c *Config) SelectionPolicy() dataset.SelectionPolicy {
	policy := dataset.SelectionPolicy{
		MinPreScore: c.Discovery.MinPreScore,
		TierCaps:    make(map[prescore.Tier]int, len(c.Discovery.TierCaps)),
	}
	for name, limit := range c.Discovery.TierCaps {
		tier, err := prescore.ParseTier(name)
		if err != nil {
			continue
		}
		policy.TierCaps[tier] = limit
	}
	return policy
}

// RegistryOptions converts the quality section for schema.New.
func (c *Config) RegistryOptions() []schema.Option {
	return c.Quality.RegistryOptions()
}

// RegistryOptions converts the section for schema.New.
func (q *QualityConfig) RegistryOptions() []schema.Option {
	var opts []schema.Option
	if q.AIPriorityTypes != nil {
		opts = append(opts, schema.WithAIPriorityTypes(q.AIPriorityTypes...))
	}
	if len(q.GoogleRequired) > 0 {
		opts = append(opts, schema.WithGoogleRequired(q.GoogleRequired))
	}
	return opts
}

// QualityOptions converts the quality section for quality.NewScorer.
func (c *Config) QualityOptions() []quality.Option {
	return []quality.Option{quality.WithMinScore(c.Quality.MinScore)}
}

// Registry builds the schema registry from the built-in catalog and the quality section.
func (c *Config) Registry() (*schema.Registry, error) {
	reg, err := schema.New(schema.Catalog(), c.RegistryOptions()...)
	if err != nil {
		return nil, fmt.Errorf("build schema registry: %w", err)
	}
	return reg, nil
}
