package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StoreConfig struct {
	Dir string `yaml:"dir" validate:"required|unixPath"`
}

type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type PlatformsConfig struct {
	CodeforcesBaseURL  string `yaml:"codeforcesBaseURL" validate:"required|fullUrl"`
	LeetCodeURL        string `yaml:"leetcodeURL" validate:"required|fullUrl"`
	CodeChefScraperURL string `yaml:"codechefScraperURL"`
	GitHubBaseURL      string `yaml:"githubBaseURL" validate:"required|fullUrl"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Store     StoreConfig     `yaml:"store"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Platforms PlatformsConfig `yaml:"platforms"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
