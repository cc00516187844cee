// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/abstract-search/pkg/types"
)

const (
	defaultEndpoint   = "http://localhost:8080"
	defaultHistoryDir = ".abstract-search"
	defaultModel      = "gpt-4o-mini"
)

func setDefaults() {
	viper.SetDefault("client.endpoint", defaultEndpoint)
	viper.SetDefault("client.timeout", time.Duration(0))

	viper.SetDefault("render.sanitize", false)

	viper.SetDefault("pubmed.max_results", 10)
	viper.SetDefault("pubmed.tool", "abstract-search")
	viper.SetDefault("pubmed.timeout", 30*time.Second)
	viper.SetDefault("pubmed.max_retries", 5)

	viper.SetDefault("ai.model", defaultModel)
	viper.SetDefault("ai.max_tokens", 1024)
	viper.SetDefault("ai.temperature", 0.2)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.env", "local")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.dir", defaultHistoryDir)
	viper.SetDefault("history.max_results", 20)
}

// loadConfig assembles the configuration from viper and fills missing
// credentials from the secrets directory.
func loadConfig() types.Config {
	userAgent := "abstract-search/" + version

	cfg := types.Config{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("client.timeout"),
				UserAgent: userAgent,
			},
			Endpoint: viper.GetString("client.endpoint"),
		},
		Render: types.RenderConfig{
			Sanitize: viper.GetBool("render.sanitize"),
		},
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("pubmed.timeout"),
				UserAgent: userAgent,
			},
			MaxResults:        viper.GetInt("pubmed.max_results"),
			APIKey:            viper.GetString("pubmed.api_key"),
			Email:             viper.GetString("pubmed.email"),
			Tool:              viper.GetString("pubmed.tool"),
			RequestsPerSecond: viper.GetFloat64("pubmed.requests_per_second"),
			MaxRetries:        viper.GetInt("pubmed.max_retries"),
		},
		AI: types.AIConfig{
			Model:       viper.GetString("ai.model"),
			APIKey:      viper.GetString("ai.api_key"),
			BaseURL:     viper.GetString("ai.base_url"),
			MaxTokens:   viper.GetInt("ai.max_tokens"),
			Temperature: float32(viper.GetFloat64("ai.temperature")),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			Env:             viper.GetString("server.env"),
			LogLevel:        viper.GetString("server.log_level"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  viper.GetStringSlice("server.allowed_origins"),
			RateLimit:       viper.GetFloat64("server.rate_limit"),
			RateBurst:       viper.GetInt("server.rate_burst"),
		},
		History: types.HistoryConfig{
			Enabled:    viper.GetBool("history.enabled"),
			Dir:        viper.GetString("history.dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}

	loadedSecrets.Apply(&cfg)
	return cfg
}
