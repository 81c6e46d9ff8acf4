package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	HttpPort       string   `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies"`

	JwtTTL time.Duration `yaml:"jwt_ttl"`

	PostsPerPage    int `yaml:"posts_per_page"`
	MaxPostsPerPage int `yaml:"max_posts_per_page"`

	ReadRateLimit  RateLimit `yaml:"read_rate_limit"`  // per client IP
	WriteRateLimit RateLimit `yaml:"write_rate_limit"` // per user

	Media Media `yaml:"media"`
}

type RateLimit struct {
	Rps   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Media configures the image bucket and upload limits.
type Media struct {
	RootPath      string `yaml:"root_path"`       // directory holding the bucket folders
	PublicBaseURL string `yaml:"public_base_url"` // e.g. http://localhost:8080/media
	Bucket        string `yaml:"bucket"`

	MaxImagesPerEntity    int      `yaml:"max_images_per_entity"`
	MaxImageSizeBytes     int64    `yaml:"max_image_size_bytes"`
	MaxTotalUploadBytes   int64    `yaml:"max_total_upload_bytes"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types"`
	MaxImageDimension     int      `yaml:"max_image_dimension"` // max width and height in pixels

	OrphanSweepInterval  time.Duration `yaml:"orphan_sweep_interval"` // 0 disables the background sweeper
	OrphanSweepThreshold time.Duration `yaml:"orphan_sweep_threshold"`
}

// PublicPath is the URL path under which bucket objects are served,
// taken from public_base_url: /<base path>/<bucket>/.
func (m Media) PublicPath() string {
	u, err := url.Parse(m.PublicBaseURL)
	if err != nil {
		return "/" + m.Bucket + "/"
	}
	return strings.TrimRight(u.Path, "/") + "/" + m.Bucket + "/"
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder.
// An optional .env in the same folder is loaded first; MYBLOG_PG_PASSWORD and
// MYBLOG_JWT_KEY override the private file.
func MustLoad(configFolder string) *Config {
	envPath := path.Join(configFolder, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			panic("can't load env file: " + err.Error())
		}
	}

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MYBLOG_PG_PASSWORD"); v != "" {
		c.Private.Pg.Password = v
	}
	if v := os.Getenv("MYBLOG_JWT_KEY"); v != "" {
		c.Private.JwtKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Public.HttpPort == "" {
		c.Public.HttpPort = "8080"
	}
	if c.Public.PostsPerPage == 0 {
		c.Public.PostsPerPage = 5
	}
	if c.Public.MaxPostsPerPage == 0 {
		c.Public.MaxPostsPerPage = 50
	}
	if c.Public.ReadRateLimit.Rps == 0 {
		c.Public.ReadRateLimit = RateLimit{Rps: 20, Burst: 40}
	}
	if c.Public.WriteRateLimit.Rps == 0 {
		c.Public.WriteRateLimit = RateLimit{Rps: 1, Burst: 5}
	}
	if c.Public.Media.Bucket == "" {
		c.Public.Media.Bucket = "blog-images"
	}
	if c.Public.Media.MaxImageDimension == 0 {
		c.Public.Media.MaxImageDimension = 8192
	}
	if c.Public.Media.OrphanSweepThreshold == 0 {
		c.Public.Media.OrphanSweepThreshold = time.Hour
	}
}

// Validate reports the first missing required field.
func (c *Config) Validate() error {
	switch {
	case c.Private.JwtKey == "":
		return errors.New("jwt_key is required")
	case c.Public.JwtTTL <= 0:
		return errors.New("jwt_ttl must be positive")
	case c.Public.Media.RootPath == "":
		return errors.New("media.root_path is required")
	case c.Public.Media.PublicBaseURL == "":
		return errors.New("media.public_base_url is required")
	case !validBaseURL(c.Public.Media.PublicBaseURL):
		return fmt.Errorf("media.public_base_url %q must be an absolute http(s) url without query or fragment", c.Public.Media.PublicBaseURL)
	case c.Public.Media.MaxImagesPerEntity <= 0:
		return errors.New("media.max_images_per_entity must be positive")
	case c.Public.Media.MaxImageSizeBytes <= 0:
		return errors.New("media.max_image_size_bytes must be positive")
	case c.Public.Media.MaxTotalUploadBytes < c.Public.Media.MaxImageSizeBytes:
		return fmt.Errorf("media.max_total_upload_bytes (%d) is smaller than max_image_size_bytes (%d)",
			c.Public.Media.MaxTotalUploadBytes, c.Public.Media.MaxImageSizeBytes)
	case len(c.Public.Media.AllowedImageMimeTypes) == 0:
		return errors.New("media.allowed_image_mime_types is required")
	}
	return nil
}

func validBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.RawQuery == "" && u.Fragment == ""
}
