package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ggonzalez94/superfluid-cli/internal/format"
	"github.com/ggonzalez94/superfluid-cli/internal/registry"
)

const (
	ABIFormatModule = "js"
	ABIFormatJSON   = "json"
)

type GlobalFlags struct {
	ConfigPath     string
	JSON           bool
	Plain          bool
	Envelope       bool
	Select         string
	EnableCommands string
	Verbose        bool
	Offline        bool
	CacheDir       string
}

type Settings struct {
	OutputMode     string
	Envelope       bool
	SelectFields   []string
	EnableCommands []string
	LogLevel       string
	Offline        bool

	CacheDir      string
	CacheLockPath string

	ABIBaseURL      string
	ABIFormat       string
	NetworksURL     string
	TokenListURL    string
	BalanceAPIURL   string
	SubgraphBaseURL string

	DisplayPrecision int
	DefaultDecimals  int
}

type fileConfig struct {
	Output   string `yaml:"output"`
	LogLevel string `yaml:"log_level"`
	Offline  *bool  `yaml:"offline"`
	Cache    struct {
		Dir      string `yaml:"dir"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"cache"`
	Endpoints struct {
		ABIBase      string `yaml:"abi_base"`
		Networks     string `yaml:"networks"`
		TokenList    string `yaml:"tokenlist"`
		BalanceAPI   string `yaml:"balance_api"`
		SubgraphBase string `yaml:"subgraph_base"`
	} `yaml:"endpoints"`
	ABI struct {
		Format string `yaml:"format"`
	} `yaml:"abi"`
	Format struct {
		DisplayPrecision *int `yaml:"display_precision"`
		DefaultDecimals  *int `yaml:"default_decimals"`
	} `yaml:"format"`
}

// Load layers defaults, the YAML file, SF_* environment variables and flags,
// in that order.
func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}
	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}
	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}
	return settings, validate(settings)
}

func defaultSettings() (Settings, error) {
	cacheDir, err := defaultCacheDir()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:       "json",
		LogLevel:         "warn",
		CacheDir:         cacheDir,
		ABIBaseURL:       registry.DefaultABIBaseURL,
		ABIFormat:        ABIFormatModule,
		NetworksURL:      registry.DefaultNetworksURL,
		TokenListURL:     registry.DefaultTokenListURL,
		BalanceAPIURL:    registry.DefaultBalanceAPIURL,
		SubgraphBaseURL:  registry.DefaultSubgraphEndpoints,
		DisplayPrecision: format.DefaultDisplayPrecision,
		DefaultDecimals:  format.DefaultDecimals,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	if v := os.Getenv("SF_CONFIG"); v != "" {
		return v, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "superfluid", "config.yaml"), nil
}

func defaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "superfluid"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	setString(&settings.OutputMode, strings.ToLower(cfg.Output))
	setString(&settings.LogLevel, strings.ToLower(cfg.LogLevel))
	if cfg.Offline != nil {
		settings.Offline = *cfg.Offline
	}
	setString(&settings.CacheDir, cfg.Cache.Dir)
	setString(&settings.CacheLockPath, cfg.Cache.LockPath)
	setString(&settings.ABIBaseURL, cfg.Endpoints.ABIBase)
	setString(&settings.NetworksURL, cfg.Endpoints.Networks)
	setString(&settings.TokenListURL, cfg.Endpoints.TokenList)
	setString(&settings.BalanceAPIURL, cfg.Endpoints.BalanceAPI)
	setString(&settings.SubgraphBaseURL, cfg.Endpoints.SubgraphBase)
	setString(&settings.ABIFormat, strings.ToLower(cfg.ABI.Format))
	if cfg.Format.DisplayPrecision != nil {
		settings.DisplayPrecision = *cfg.Format.DisplayPrecision
	}
	if cfg.Format.DefaultDecimals != nil {
		settings.DefaultDecimals = *cfg.Format.DefaultDecimals
	}
	return nil
}

func applyEnv(settings *Settings) error {
	setString(&settings.OutputMode, strings.ToLower(os.Getenv("SF_OUTPUT")))
	setString(&settings.LogLevel, strings.ToLower(os.Getenv("SF_LOG_LEVEL")))
	if v := os.Getenv("SF_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.Offline = b
		}
	}
	setString(&settings.CacheDir, os.Getenv("SF_CACHE_DIR"))
	setString(&settings.CacheLockPath, os.Getenv("SF_CACHE_LOCK_PATH"))
	setString(&settings.ABIBaseURL, os.Getenv("SF_ABI_BASE_URL"))
	setString(&settings.ABIFormat, strings.ToLower(os.Getenv("SF_ABI_FORMAT")))
	setString(&settings.NetworksURL, os.Getenv("SF_NETWORKS_URL"))
	setString(&settings.TokenListURL, os.Getenv("SF_TOKENLIST_URL"))
	setString(&settings.BalanceAPIURL, os.Getenv("SF_BALANCE_API_URL"))
	setString(&settings.SubgraphBaseURL, os.Getenv("SF_SUBGRAPH_BASE_URL"))
	if v := os.Getenv("SF_DISPLAY_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SF_DISPLAY_PRECISION: %w", err)
		}
		settings.DisplayPrecision = n
	}
	if v := os.Getenv("SF_DEFAULT_DECIMALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SF_DEFAULT_DECIMALS: %w", err)
		}
		settings.DefaultDecimals = n
	}
	return nil
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if flags.Envelope {
		settings.Envelope = true
	}
	if fields := splitList(flags.Select); len(fields) > 0 {
		settings.SelectFields = fields
	}
	if allowed := splitList(flags.EnableCommands); len(allowed) > 0 {
		settings.EnableCommands = allowed
	}
	if flags.Verbose {
		settings.LogLevel = "debug"
	}
	if flags.Offline {
		settings.Offline = true
	}
	setString(&settings.CacheDir, flags.CacheDir)
	return nil
}

func validate(settings Settings) error {
	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}
	if settings.ABIFormat != ABIFormatModule && settings.ABIFormat != ABIFormatJSON {
		return fmt.Errorf("abi.format must be %s or %s", ABIFormatModule, ABIFormatJSON)
	}
	if settings.DisplayPrecision < 0 {
		return fmt.Errorf("format.display_precision must not be negative")
	}
	if settings.DefaultDecimals < 0 {
		return fmt.Errorf("format.default_decimals must not be negative")
	}
	if strings.TrimSpace(settings.CacheDir) == "" {
		return fmt.Errorf("cache directory must not be empty")
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
