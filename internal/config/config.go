// Package config contains utilities for loading configs
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/go-playground/validator/v10"
)

const configFilePath = "/data/foodvault.yaml"

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	defaultServerPort  = 8080
	defaultDBPort      = 5432
	defaultProviderAPI = "https://api.spoonacular.com"
)

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing enforces that the fields named in the tag parameter are
// either all zero-valued or all set. Attached to a placeholder field; it
// inspects the parent struct. Misconfiguration (unknown field names, no
// names, non-struct parent) fails validation.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			namespace := e.Namespace()
			parts := strings.Split(namespace, ".")
			var structName string
			//nolint:mnd
			if len(parts) >= 2 {
				structName = parts[len(parts)-2]
			}

			fields := "all related fields"
			if structName == "Database" {
				fields = "Port, Host, Database, User, and Password"
			}

			return fmt.Errorf(
				"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
				structName, fields)
		}
	}

	return err
}

type Provider struct {
	// APIKey may be given directly or via APIKeyPath. Its absence is not
	// a load error: only the external-search path requires it, and that
	// path surfaces the missing credential as a fatal error itself.
	APIKey     string `yaml:"api_key"`
	APIKeyPath string `yaml:"api_key_path" validate:"omitempty,filepath"`
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
}

type Auth struct {
	// Secret verifies access tokens minted by the identity provider.
	Secret        string `yaml:"secret"`
	SecretVersion string `yaml:"secret_version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

type Server struct {
	Port       uint16 `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin" validate:"omitempty,url"`
}

type Config struct {
	Provider Provider `yaml:"provider"`
	Auth     Auth     `yaml:"auth"`
	Database Database `yaml:"database"`
	Server   Server   `yaml:"server"`
	Env      string   `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func loadProviderKey(config *Config) error {
	if config.Provider.APIKey != "" || config.Provider.APIKeyPath == "" {
		return nil
	}

	data, err := os.ReadFile(config.Provider.APIKeyPath)
	if err != nil {
		return fmt.Errorf("reading provider key file: %w", err)
	}
	config.Provider.APIKey = strings.TrimSpace(string(data))
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func applyDefaults(config *Config) {
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaultServerPort
	}
	if config.Provider.BaseURL == "" {
		config.Provider.BaseURL = defaultProviderAPI
	}
	if config.Auth.SecretVersion == "" {
		config.Auth.SecretVersion = "1"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = defaultDBPort
	}
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env: loadWithDefault("ENV", EnvDev),
		Provider: Provider{
			APIKey:     loadWithDefault("PROVIDER_API_KEY", ""),
			APIKeyPath: loadWithDefault("PROVIDER_API_KEY_FILE", ""),
			BaseURL:    loadWithDefault("PROVIDER_BASE_URL", defaultProviderAPI),
		},
		Auth: Auth{
			Secret:        loadWithDefault("AUTH_SECRET", ""),
			SecretVersion: loadWithDefault("AUTH_SECRET_VERSION", "1"),
		},
		Database: Database{
			Host:     loadWithDefault("DATABASE_HOST", "localhost"),
			Database: loadWithDefault("DATABASE", ""),
			User:     loadWithDefault("DATABASE_USER", ""),
			Password: loadWithDefault("DATABASE_PASSWORD", ""),
		},
		Server: Server{
			CORSOrigin: loadWithDefault("CORS_ORIGIN", ""),
		},
	}

	databasePort := loadWithDefault("DATABASE_PORT", strconv.Itoa(defaultDBPort))
	if port, err := strconv.ParseUint(databasePort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	} else {
		conf.Database.Port = uint16(port)
	}

	serverPort := loadWithDefault("SERVER_PORT", strconv.Itoa(defaultServerPort))
	if port, err := strconv.ParseUint(serverPort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid SERVER_PORT (%q): %w", serverPort, err)
	} else {
		conf.Server.Port = uint16(port)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	if err := validate.Struct(conf); err != nil {
		return conf, formatValidationError(err)
	}

	if err := loadProviderKey(&conf); err != nil {
		return conf, fmt.Errorf("loading provider key: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&config)

	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	if err := validate.Struct(config); err != nil {
		return Config{}, formatValidationError(err)
	}

	if err := loadProviderKey(&config); err != nil {
		return Config{}, fmt.Errorf("loading provider key: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
