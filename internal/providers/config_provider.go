package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"cptrack/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("platforms.codeforcesBaseURL", "https://codeforces.com/api")
	viper.SetDefault("platforms.leetcodeURL", "https://leetcode.com/graphql")
	viper.SetDefault("platforms.githubBaseURL", "https://api.github.com")
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("cache.ttl", "5m")

	viper.BindEnv("logger.level", "CPTRACK_LOG_LEVEL")
	viper.BindEnv("cache.enabled", "CPTRACK_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CPTRACK_CACHE_SIZE")
	viper.BindEnv("fetch.timeout", "CPTRACK_FETCH_TIMEOUT")
	viper.BindEnv("platforms.codechefScraperURL", "CPTRACK_CODECHEF_SCRAPER_URL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "cptrack"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
