package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainerr "quill/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
}

type SiteConfig struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	SiteURL     string   `yaml:"site_url"`
	SortMode    SortMode `yaml:"sort_mode"`
	Language    string   `yaml:"language"`
	Description string   `yaml:"description"`
}

type SortMode string

const (
	SortPublished SortMode = "published"
	SortUpdated   SortMode = "updated"
)

type ContentConfig struct {
	PostsDir   string `yaml:"posts_dir"`
	AuthorsDir string `yaml:"authors_dir"`
}

type BuildConfig struct {
	PublicDir    string    `yaml:"public_dir"`
	IncludeDraft bool      `yaml:"include_draft"`
	Now          time.Time `yaml:"-"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Quill",
			SiteURL:  "http://localhost:8080",
			SortMode: SortPublished,
			Language: "en",
		},
		Content: ContentConfig{
			PostsDir:   "content/blog",
			AuthorsDir: "content/authors",
		},
		Build: BuildConfig{
			PublicDir:    "public",
			IncludeDraft: false,
			Now:          time.Now(),
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", domainerr.KindEmptyField, "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", domainerr.KindEmptyField, "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", domainerr.KindInvalidURL, "must be a valid absolute URL")
	}

	switch c.Site.SortMode {
	case "", SortPublished:
	// default ok
	case SortUpdated:
	default:
		ve.Add("site.sort_mode", domainerr.KindInvalidType, "must be 'published' or 'updated'")
	}

	if strings.TrimSpace(c.Content.PostsDir) == "" {
		ve.Add("content.posts_dir", domainerr.KindEmptyField, "must not be empty")
	}
	if strings.TrimSpace(c.Content.AuthorsDir) == "" {
		ve.Add("content.authors_dir", domainerr.KindEmptyField, "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", domainerr.KindEmptyField, "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
