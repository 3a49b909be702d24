package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
// - validate: range and enum rules checked by go-playground/validator
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`

	// Backend holds the booking backend connection.
	Backend BackendConfig `mapstructure:",squash"`

	// Redis holds the booking cache settings.
	Redis RedisConfig `mapstructure:",squash"`

	// Simulation holds the defaults for new tracking sessions.
	Simulation SimulationConfig `mapstructure:",squash"`
}

// BackendConfig holds the credentials for the booking backend.
type BackendConfig struct {
	// URL is the base URL of the backend REST API.
	URL string `mapstructure:"BACKEND_URL" required:"true" validate:"url"`
	// APIKey is sent as a bearer token.
	APIKey string `mapstructure:"BACKEND_API_KEY"`
	// TimeoutSeconds bounds each backend request.
	TimeoutSeconds int `mapstructure:"BACKEND_TIMEOUT_SECONDS" default:"10" validate:"min=1"`
}

// RedisConfig holds the booking cache connection.
type RedisConfig struct {
	// URL is a redis:// connection string.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// BookingTTLSeconds is how long a booking stays cached.
	BookingTTLSeconds int `mapstructure:"BOOKING_CACHE_TTL_SECONDS" default:"15" validate:"min=1"`
}

// SimulationConfig holds route synthesis and position simulation defaults.
type SimulationConfig struct {
	TickIntervalMs     int     `mapstructure:"SIM_TICK_INTERVAL_MS" default:"1000" validate:"min=50"`
	SpeedKmh           float64 `mapstructure:"SIM_SPEED_KMH" default:"30" validate:"gt=0"`
	ArrivalThresholdKm float64 `mapstructure:"SIM_ARRIVAL_THRESHOLD_KM" default:"0.05" validate:"gt=0"`
	StepMode           string  `mapstructure:"SIM_STEP_MODE" default:"discrete" validate:"oneof=discrete interpolated"`
	SpeedFraction      float64 `mapstructure:"SIM_SPEED_FRACTION" default:"0.15" validate:"gt=0,lte=1"`
	PointCount         int     `mapstructure:"ROUTE_POINT_COUNT" default:"20" validate:"min=1,max=500"`
	WobbleFactor       float64 `mapstructure:"ROUTE_WOBBLE_FACTOR" default:"0.0005" validate:"gte=0"`
	WobbleCap          float64 `mapstructure:"ROUTE_WOBBLE_CAP" default:"0.002" validate:"gte=0"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch loads the configuration and calls onChange with every successfully
// reloaded version after the .env file in path changes. Invalid reloads are
// passed to onError and otherwise ignored. Without a .env file nothing is watched.
func Watch(path string, onChange func(*AppConfig), onError func(error)) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if v.ConfigFileUsed() == "" {
		return cfg, nil
	}

	var mu sync.Mutex
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		mu.Lock()
		defer mu.Unlock()

		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", filepath.Base(e.Name), err))
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()

	return cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := processTags(v, &AppConfig{}); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := getValidator().Struct(&config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid configuration: %s failed %q", keyOf(verrs[0]), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// keyOf maps a validation error back to its environment key.
func keyOf(fe validator.FieldError) string {
	// StructNamespace looks like "AppConfig.Simulation.StepMode".
	parts := strings.Split(fe.StructNamespace(), ".")
	t := reflect.TypeOf(AppConfig{})
	var field reflect.StructField
	for _, name := range parts[1:] {
		f, ok := t.FieldByName(name)
		if !ok {
			return fe.Namespace()
		}
		field, t = f, f.Type
	}
	if key := field.Tag.Get("mapstructure"); key != "" {
		return key
	}
	return fe.Namespace()
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
