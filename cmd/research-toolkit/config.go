// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// setConfigDefaults registers defaults for every config key, so a bare
// install works without a config file.
func setConfigDefaults() {
	viper.SetDefault("pubmed.timeout", "30s")
	viper.SetDefault("pubmed.max_results", 100)
	viper.SetDefault("pubmed.tool", "research-toolkit")

	viper.SetDefault("analysis.mesh_top", 10)
	viper.SetDefault("analysis.word_top", 20)
	viper.SetDefault("analysis.min_word_length", 4)

	viper.SetDefault("trend.start_year", 2000)
	viper.SetDefault("trend.end_year", 0)

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)

	viper.SetDefault("server.addr", ":8080")
}

// pubmedConfig assembles the E-utilities client configuration from
// viper and loaded secrets. Explicit config values win over secrets.
func pubmedConfig() types.PubMedConfig {
	return types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("pubmed.timeout"),
			UserAgent: viper.GetString("pubmed.user_agent"),
		},
		MaxResults: viper.GetInt("pubmed.max_results"),
		APIKey:     secretDefault("ncbi-api-key", viper.GetString("pubmed.api_key")),
		Email:      secretDefault("ncbi-email", viper.GetString("pubmed.email")),
		Tool:       viper.GetString("pubmed.tool"),
	}
}

func analysisConfig() types.AnalysisConfig {
	return types.AnalysisConfig{
		MeshTop:       viper.GetInt("analysis.mesh_top"),
		WordTop:       viper.GetInt("analysis.word_top"),
		MinWordLength: viper.GetInt("analysis.min_word_length"),
	}
}

func trendConfig() types.TrendConfig {
	return types.TrendConfig{
		StartYear: viper.GetInt("trend.start_year"),
		EndYear:   viper.GetInt("trend.end_year"),
	}
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		DataDir:    viper.GetString("store.data_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}
