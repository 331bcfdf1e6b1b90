package config

// Config holds parse-pdfs configuration.
// Loaded from ./config.yaml or ~/.parse-pdfs/config.yaml.
type Config struct {
	Scan    ScanCfg    `mapstructure:"scan" yaml:"scan"`
	Output  OutputCfg  `mapstructure:"output" yaml:"output"`
	Extract ExtractCfg `mapstructure:"extract" yaml:"extract"`
	Logging LoggingCfg `mapstructure:"logging" yaml:"logging"`
}

// ScanCfg configures file discovery and matching defaults.
type ScanCfg struct {
	Extensions    []string `mapstructure:"extensions" yaml:"extensions"`         // File extensions to process
	Recursive     bool     `mapstructure:"recursive" yaml:"recursive"`           // Descend into subdirectories
	ContextBefore int      `mapstructure:"context_before" yaml:"context_before"` // Runes of context before a match
	ContextAfter  int      `mapstructure:"context_after" yaml:"context_after"`   // Runes of context after a match
}

// OutputCfg configures run artifacts.
type OutputCfg struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`         // Output directory ("" = home results dir)
	Summary bool   `mapstructure:"summary" yaml:"summary"` // Also write the run summary
	CSV     bool   `mapstructure:"csv" yaml:"csv"`         // Also export results as CSV
}

// ExtractCfg configures the PDF text extractor.
type ExtractCfg struct {
	PdftotextBin string `mapstructure:"pdftotext_bin" yaml:"pdftotext_bin"` // pdftotext executable
	Workers      int    `mapstructure:"workers" yaml:"workers"`             // Concurrent page extractions (0 = NumCPU)
}

// LoggingCfg configures console logging.
type LoggingCfg struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanCfg{
			Extensions:    []string{".pdf"},
			Recursive:     false,
			ContextBefore: 50,
			ContextAfter:  50,
		},
		Output: OutputCfg{
			Summary: false,
			CSV:     false,
		},
		Extract: ExtractCfg{
			PdftotextBin: "pdftotext",
		},
		Logging: LoggingCfg{
			Level: "info",
		},
	}
}
