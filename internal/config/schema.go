package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds policyscan configuration.
// Loaded from config.yaml (or --config) with POLICYSCAN_ env overrides.
type Config struct {
	OCR        OCRConfig        `mapstructure:"ocr" yaml:"ocr"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
}

// OCRConfig configures the layout-analysis service.
type OCRConfig struct {
	Endpoint     string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey       string        `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	ModelID      string        `mapstructure:"model_id" yaml:"model_id"`
	APIVersion   string        `mapstructure:"api_version" yaml:"api_version"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // analyze requests per second
}

// StorageConfig configures the blob store containers.
type StorageConfig struct {
	ConnectionString string        `mapstructure:"connection_string" yaml:"connection_string"` // supports ${ENV_VAR} syntax
	PDFContainer     string        `mapstructure:"pdf_container" yaml:"pdf_container"`
	JSONContainer    string        `mapstructure:"json_container" yaml:"json_container"`
	SASTTL           time.Duration `mapstructure:"sas_ttl" yaml:"sas_ttl"` // signed URL lifetime
}

// ProcessingConfig holds pipeline tuning knobs. The confidence, similarity,
// and TTL thresholds are reserved for filtering passes that are not part of
// extraction yet; pacing_delay is the enforced wait between documents.
type ProcessingConfig struct {
	MinConfidence       float64       `mapstructure:"min_confidence" yaml:"min_confidence"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	PolicyTTLDays       int           `mapstructure:"policy_ttl_days" yaml:"policy_ttl_days"`
	PacingDelay         time.Duration `mapstructure:"pacing_delay" yaml:"pacing_delay"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			APIKey:       "${DOCUMENT_INTELLIGENCE_KEY}",
			ModelID:      "prebuilt-layout",
			APIVersion:   "2024-11-30",
			PollInterval: 2 * time.Second,
			Timeout:      120 * time.Second,
			RateLimit:    1.0,
		},
		Storage: StorageConfig{
			ConnectionString: "${STORAGE_CONNECTION_STRING}",
			PDFContainer:     "healthcare-pdfs",
			JSONContainer:    "healthcare-json",
			SASTTL:           2 * time.Hour,
		},
		Processing: ProcessingConfig{
			MinConfidence:       0.7,
			SimilarityThreshold: 0.85,
			PolicyTTLDays:       730,
			PacingDelay:         3 * time.Second,
		},
	}
}

// Validate checks that required settings are present. A failure here is
// fatal at startup: no remote call may be attempted with an incomplete
// configuration.
func (c *Config) Validate() error {
	var problems []error
	if c.OCR.Endpoint == "" {
		problems = append(problems, errors.New("ocr.endpoint is required"))
	}
	if ResolveEnvVars(c.OCR.APIKey) == "" {
		problems = append(problems, errors.New("ocr.api_key is required (set DOCUMENT_INTELLIGENCE_KEY or configure directly)"))
	}
	if ResolveEnvVars(c.Storage.ConnectionString) == "" {
		problems = append(problems, errors.New("storage.connection_string is required (set STORAGE_CONNECTION_STRING or configure directly)"))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
	}
	return nil
}
