package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEndpoint = errors.New("waitlist.endpointUrl is required")
	ErrMissingSecret   = errors.New("session.secret is required in prod")
)

// DevSessionSecret signs visitor cookies when no secret is configured outside prod.
const DevSessionSecret = "dev-only-waitlist-secret"

type Config struct {
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`

	Waitlist struct {
		EndpointURL string        `mapstructure:"endpointUrl"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"waitlist"`

	Submission struct {
		ResetAfter time.Duration `mapstructure:"resetAfter"`
		SettleWait time.Duration `mapstructure:"settleWait"`
	} `mapstructure:"submission"`

	Session struct {
		Secret     string        `mapstructure:"secret"`
		IdleTTL    time.Duration `mapstructure:"idleTtl"`
		SweepEvery time.Duration `mapstructure:"sweepEvery"`
	} `mapstructure:"session"`

	Domains struct {
		Portal string `mapstructure:"portal"`
		Secure bool   `mapstructure:"secure"`
	} `mapstructure:"domains"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`

	Assets struct {
		Logo  string `mapstructure:"logo"`
		Video string `mapstructure:"video"`
		S3    S3     `mapstructure:"s3"`
	} `mapstructure:"assets"`

	Site struct {
		ContactEmail string `mapstructure:"contactEmail"`
		Copyright    string `mapstructure:"copyright"`
	} `mapstructure:"site"`
}

// S3 holds the optional bucket the page assets are served from.
type S3 struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"accessKeyId"`
	SecretAccessKey string        `mapstructure:"secretAccessKey"`
	PresignTTL      time.Duration `mapstructure:"presignTtl"`
}

// Enabled reports whether assets should be presigned from a bucket.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8082)
	v.SetDefault("env", "dev")
	v.SetDefault("waitlist.endpointUrl", "")
	v.SetDefault("waitlist.timeout", 10*time.Second)
	v.SetDefault("submission.resetAfter", 5*time.Second)
	v.SetDefault("submission.settleWait", 2*time.Second)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.idleTtl", 30*time.Minute)
	v.SetDefault("session.sweepEvery", time.Minute)
	v.SetDefault("domains.portal", "")
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:*", "http://127.0.0.1:*"})
	v.SetDefault("assets.logo", "thinkblack.png")
	v.SetDefault("assets.video", "")
	v.SetDefault("assets.s3.bucket", "")
	v.SetDefault("assets.s3.region", "us-east-1")
	v.SetDefault("assets.s3.endpoint", "")
	v.SetDefault("assets.s3.accessKeyId", "")
	v.SetDefault("assets.s3.secretAccessKey", "")
	v.SetDefault("assets.s3.presignTtl", time.Hour)
	v.SetDefault("site.contactEmail", "aithink572@gmail.com")
	v.SetDefault("site.copyright", "© 2026 THINK AI — WE THINK THROUGH SO YOU CAN MAKE A DECISION")
}

// LoadConfig loads the configuration from an optional .env file, the YAML file at
// path (skipped when empty) and environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Only derive secure cookies from the environment when not set explicitly.
	if !v.IsSet("domains.secure") {
		cfg.Domains.Secure = cfg.Env == "prod"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without and fills the
// development session secret.
func (c *Config) Validate() error {
	if c.Waitlist.EndpointURL == "" {
		return ErrMissingEndpoint
	}
	u, err := url.Parse(c.Waitlist.EndpointURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("waitlist.endpointUrl %q: must be an absolute http(s) URL", c.Waitlist.EndpointURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Session.Secret == "" {
		if c.Env == "prod" {
			return ErrMissingSecret
		}
		c.Session.Secret = DevSessionSecret
	}
	if c.Waitlist.Timeout <= 0 {
		return fmt.Errorf("waitlist.timeout must be positive, got %s", c.Waitlist.Timeout)
	}
	if c.Submission.ResetAfter <= 0 {
		return fmt.Errorf("submission.resetAfter must be positive, got %s", c.Submission.ResetAfter)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
