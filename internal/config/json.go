package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [Config] for JSON sources (config file and bootstrap
// message) so that durations can be written as "30s" as well as nanoseconds.
type jsonConfig struct {
	Port             int      `json:"port"`
	CertPublic       string   `json:"certPublic"`
	CertPublicFile   string   `json:"certPublicFile"`
	AuthCookie       string   `json:"authCookie"`
	Prefix           string   `json:"prefix"`
	UseRequestLogger bool     `json:"useRequestLogger"`
	UseRateLimiter   bool     `json:"useRateLimiter"`
	UseCache         bool     `json:"useCache"`
	Routes           string   `json:"routes"`
	Events           string   `json:"events"`
	StreamPath       string   `json:"streamPath"`
	MiddlewareOrder  []string `json:"middlewareOrder"`

	RateLimit struct {
		Max    int      `json:"max"`
		Window Duration `json:"window"`
	} `json:"rateLimit"`

	Cache struct {
		TTL Duration `json:"ttl"`
	} `json:"cache"`

	Refresh struct {
		URL     string   `json:"url"`
		Timeout Duration `json:"timeout"`
	} `json:"refresh"`

	Redis Redis `json:"redis"`

	LogLevel        string   `json:"logLevel"`
	ShutdownTimeout Duration `json:"shutdownTimeout"`
}

func (j jsonConfig) toConfig() *Config {
	return &Config{
		Port:             j.Port,
		CertPublic:       j.CertPublic,
		CertPublicFile:   j.CertPublicFile,
		AuthCookie:       j.AuthCookie,
		Prefix:           j.Prefix,
		UseRequestLogger: j.UseRequestLogger,
		UseRateLimiter:   j.UseRateLimiter,
		UseCache:         j.UseCache,
		Routes:           j.Routes,
		Events:           j.Events,
		StreamPath:       j.StreamPath,
		MiddlewareOrder:  j.MiddlewareOrder,
		RateLimit: RateLimit{
			Max:    j.RateLimit.Max,
			Window: time.Duration(j.RateLimit.Window),
		},
		Cache:           Cache{TTL: time.Duration(j.Cache.TTL)},
		Refresh:         Refresh{URL: j.Refresh.URL, Timeout: time.Duration(j.Refresh.Timeout)},
		Redis:           j.Redis,
		LogLevel:        j.LogLevel,
		ShutdownTimeout: time.Duration(j.ShutdownTimeout),
	}
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return jsonCfg.toConfig(), nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
