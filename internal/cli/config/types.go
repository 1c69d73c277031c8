// Package config provides configuration management for the psyrepl CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Namespace     string        `koanf:"namespace"`
	Prompt        string        `koanf:"prompt"`
	BufferPrompt  string        `koanf:"buffer_prompt"`
	HistoryFile   string        `koanf:"history_file"`
	Evaluator     string        `koanf:"evaluator"`
	PHP           PHPConfig     `koanf:"php"`
	Journal       JournalConfig `koanf:"journal"`
	Functions     []string      `koanf:"functions"`
	DisabledRules []string      `koanf:"disabled_rules"`
	Color         string        `koanf:"color"`
	Verbose       bool          `koanf:"verbose"`
}

// PHPConfig configures the php evaluator.
type PHPConfig struct {
	Binary  string        `koanf:"binary"`
	Timeout time.Duration `koanf:"timeout"`
}

// JournalConfig configures the session journal. An empty path disables it.
type JournalConfig struct {
	Path string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultPrompt       = ">>> "
	DefaultBufferPrompt = "... "
	DefaultEvaluator    = "auto"
	DefaultPHPBinary    = "php"
	DefaultPHPTimeout   = 30 * time.Second
	DefaultColor        = "auto"
	AppName             = "psyrepl"
)

// Valid option values.
var (
	ValidEvaluators = []string{"auto", "php", "print"}
	ValidColors     = []string{"auto", "always", "never"}
)
