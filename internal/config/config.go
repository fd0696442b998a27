package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:7433"
	DefaultDBFileName  = ".docstash.db"
	DefaultLogLevel    = "info"
	DefaultSessionDays = 15

	DefaultMaxUploadBytes     int64 = 100 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	configDirEnvKey     = "DOCSTASH_CONFIG_DIR"
	apiURLEnvKey        = "DOCSTASH_API_URL"
	dbPathEnvKey        = "DOCSTASH_DB"
	storageRootEnvKey   = "DOCSTASH_STORAGE_ROOT"
	sessionSecretEnvKey = "DOCSTASH_SESSION_SECRET"
	logLevelEnvKey      = "DOCSTASH_LOG_LEVEL"

	configFileName = ".docstash.toml"
)

// SessionConfig defines session token issuance settings. The secret is a
// process-wide symmetric signing key fixed at start; rotation is out of scope.
type SessionConfig struct {
	Secret  string `toml:"secret"`
	TTLDays int    `toml:"ttl_days"`
}

// UploadConfig defines limits for document uploads.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// Config defines runtime configuration for docstash.
type Config struct {
	APIURL      string        `toml:"api_url"`
	DBPath      string        `toml:"db_path"`
	StorageRoot string        `toml:"storage_root"`
	LogLevel    string        `toml:"log_level"`
	Session     SessionConfig `toml:"session"`
	Upload      UploadConfig  `toml:"upload"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Session: SessionConfig{
			TTLDays: DefaultSessionDays,
		},
		Upload: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
	}
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"storage_root",
	"log_level",
	"session.secret",
	"session.ttl_days",
	"upload.max_upload_bytes",
	"upload.multipart_max_memory",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "storage_root":
		return c.StorageRoot, nil
	case "log_level":
		return c.LogLevel, nil
	case "session.secret":
		// Never print the signing secret; report only whether it is set.
		if strings.TrimSpace(c.Session.Secret) == "" {
			return "(unset)", nil
		}
		return "(set)", nil
	case "session.ttl_days":
		return strconv.Itoa(c.Session.TTLDays), nil
	case "upload.max_upload_bytes":
		return strconv.FormatInt(c.Upload.MaxUploadBytes, 10), nil
	case "upload.multipart_max_memory":
		return strconv.FormatInt(c.Upload.MultipartMaxMemory, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Path returns the config file path, honoring the directory override.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if statErr != nil && !os.IsNotExist(statErr) {
			return nil, statErr
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if storageRoot := os.Getenv(storageRootEnvKey); storageRoot != "" {
		cfg.StorageRoot = storageRoot
	}
	if secret := os.Getenv(sessionSecretEnvKey); secret != "" {
		cfg.Session.Secret = secret
	}
	if level := os.Getenv(logLevelEnvKey); level != "" {
		cfg.LogLevel = level
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "session.ttl_days":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "upload.max_upload_bytes", "upload.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeDefaults() {
	if c.Session.TTLDays <= 0 {
		c.Session.TTLDays = DefaultSessionDays
	}
	if c.Upload.MaxUploadBytes <= 0 {
		c.Upload.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Upload.MultipartMaxMemory <= 0 {
		c.Upload.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if c.StorageRoot == "" && c.DBPath != "" {
		c.StorageRoot = filepath.Join(filepath.Dir(c.DBPath), ".docstash", "storage")
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
}
