package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const CurrentVersion = 1

var ErrVersionMismatch = errors.New("config version mismatch")

// Everything the bot reads from its TOML file. Secrets (the bot token) come from the environment instead.
type Config struct {
	Version int `koanf:"version"`

	Bot     BotConfig     `koanf:"bot"`
	API     APIConfig     `koanf:"api"`
	Maplist MaplistConfig `koanf:"maplist"`
	Storage StorageConfig `koanf:"storage"`
	Logging LoggingConfig `koanf:"logging"`
}

type BotConfig struct {
	Name       string   `koanf:"name"`
	AppID      string   `koanf:"app_id"`
	Version    string   `koanf:"version"`
	GithubRepo string   `koanf:"github_repo"`
	EmbedColor int      `koanf:"embed_color"`
	CoOwnerIDs []string `koanf:"co_owner_ids"`

	// How long an unused menu keeps answering before it is dropped.
	ViewLifetime time.Duration `koanf:"view_lifetime"`
}

type APIConfig struct {
	BaseURL        string        `koanf:"base_url"`
	WebURL         string        `koanf:"web_url"`
	PreviewProxy   string        `koanf:"preview_proxy"` // Format string taking the map code, e.g. "http://localhost:5000/map/%s.jpg"
	NinjaKiwiURL   string        `koanf:"ninjakiwi_url"`
	PrivateKeyPath string        `koanf:"private_key_path"`
	Timeout        time.Duration `koanf:"timeout"`

	CacheTTL          time.Duration `koanf:"cache_ttl"`
	NinjaKiwiCacheTTL time.Duration `koanf:"ninjakiwi_cache_ttl"`

	// Requests per minute sent to Ninja Kiwi. Zero removes the limit.
	NinjaKiwiRateLimit int `koanf:"ninjakiwi_rate_limit"`
}

// A vote channel and the role pinged when a vote is called there.
type VoteChannel struct {
	ChannelID string `koanf:"channel_id"`
	RoleID    string `koanf:"role_id"`
}

type MaplistConfig struct {
	GuildID        string        `koanf:"guild_id"`
	AdminRoles     []string      `koanf:"admin_roles"`
	ListModRoles   []string      `koanf:"list_mod_roles"`
	ExpertModRoles []string      `koanf:"expert_mod_roles"`
	ListVote       VoteChannel   `koanf:"list_vote"`
	ExpertVote     VoteChannel   `koanf:"expert_vote"`
	VoteDuration   time.Duration `koanf:"vote_duration"`
}

type StorageConfig struct {
	DataPath string `koanf:"data_path"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

func Default() Config {
	return Config{
		Version: CurrentVersion,
		Bot: BotConfig{
			Name:         "Maplist Bot",
			Version:      "dev",
			EmbedColor:   0xffd54f,
			ViewLifetime: 15 * time.Minute,
		},
		API: APIConfig{
			BaseURL:           "http://localhost:4000",
			WebURL:            "http://localhost:3000",
			PreviewProxy:      "http://localhost:5000/map/%s.jpg",
			NinjaKiwiURL:      "https://data.ninjakiwi.com",
			Timeout:           10 * time.Second,
			CacheTTL:          5 * time.Minute,
			NinjaKiwiCacheTTL: 7 * 24 * time.Hour,

			NinjaKiwiRateLimit: 120,
		},
		Maplist: MaplistConfig{
			VoteDuration: 36 * time.Hour,
		},
		Storage: StorageConfig{DataPath: "data"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Reads the TOML file at path on top of [Default].
// A missing file is not an error, the defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %s has version %d, expected %d", ErrVersionMismatch, path, cfg.Version, CurrentVersion)
	}

	return &cfg, nil
}

// Where cog-like state files (such as the vote expiry snapshot) live.
func (c *Config) StateDir() string {
	return filepath.Join(c.Storage.DataPath, "cogstate")
}

func (c *Config) CacheDir() string {
	return filepath.Join(c.Storage.DataPath, ".cache")
}

// The URL Discord can embed as a map preview, since NK preview urls carry no file extension.
func (c *Config) PreviewURL(code string) string {
	return fmt.Sprintf(c.API.PreviewProxy, code)
}

func (c *Config) MapURL(code string) string {
	return c.API.WebURL + "/map/" + code
}
