// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "abstract-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the endpoint client used by the front ends.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the base URL serving /get_abstracts and /extract_terms
	// (e.g. "http://localhost:8080").
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// RenderConfig holds settings for article block rendering.
type RenderConfig struct {
	// Sanitize passes article fields through an HTML sanitizer before they are
	// inserted into the page. Off by default: fields are inserted as provided.
	Sanitize bool `json:"sanitize" yaml:"sanitize"`
}

// PubMedConfig holds settings for the NCBI E-utilities backend.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the esearch retmax (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey is an optional NCBI API key that raises the rate limit to 10 req/s.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email and Tool identify the caller to NCBI.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// RequestsPerSecond overrides the default rate limit (3/s, or 10/s with an API key).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds settings for the OpenAI-compatible language model.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL points at an OpenAI-compatible server. Empty uses the OpenAI default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens caps the completion length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature.
	Temperature float32 `json:"temperature" yaml:"temperature"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// Env selects the logger profile: prod, dev, or local.
	Env string `json:"env" yaml:"env"`

	// LogLevel overrides the environment's log level: debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// AllowedOrigins lists CORS origins for the JSON endpoints. Empty disables CORS headers.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// RateLimit caps requests per second to the JSON endpoints. Zero disables it.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// RateBurst is the limiter burst size (default 3).
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`
}

// HistoryConfig holds settings for the search history store.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding history.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of entries listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all component configurations.
type Config struct {
	Client  ClientConfig  `json:"client" yaml:"client"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	PubMed  PubMedConfig  `json:"pubmed" yaml:"pubmed"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	History HistoryConfig `json:"history" yaml:"history"`
}
