package config

import (
	"reflect"
	"strings"

	"procdiff/core/database"
	"procdiff/core/logger"
	"procdiff/core/reconcile"
	"procdiff/core/server"
	"procdiff/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional database connection.
	Database database.Config `mapstructure:"database"`
	// Compare holds the comparison defaults.
	Compare CompareConfig `mapstructure:"compare"`
}

// CompareConfig holds the column layout and report defaults of a comparison.
// Column lists are comma-separated in the environment, e.g.
// COMPARE_KEY_COLUMNS="Proc_code,Modifiers".
type CompareConfig struct {
	KeyColumns     []string `mapstructure:"key_columns" default:"Proc_code,Modifiers"`
	CompareColumns []string `mapstructure:"compare_columns" default:"Proc_code,Modifiers,CMSAdd,CMSTerm,Service,Service desc,RateType,Pricing Method,Rate Eff,Rate Term,MAxFee"`
	OutputColumns  []string `mapstructure:"output_columns" default:"Proc_code,Modifiers,CMSAdd,CMSTerm,Rate Eff,Rate Term,MAxFee"`

	// Rules is the default scrub rules location. Empty means no rules.
	Rules string `mapstructure:"rules" default:""`
	// Output is the report destination: a directory or s3://bucket/prefix.
	Output string `mapstructure:"output" default:"reports"`
	// Format is the report format (xlsx, csv, json).
	Format string `mapstructure:"format" default:"xlsx"`
	// ReportPrefix prefixes generated report file names.
	ReportPrefix string `mapstructure:"report_prefix" default:"OutputReport"`
}

// Schema returns the configured column layout, validated.
func (c CompareConfig) Schema() (reconcile.Schema, error) {
	s := reconcile.Schema{
		KeyColumns:     cleanList(c.KeyColumns),
		CompareColumns: cleanList(c.CompareColumns),
		OutputColumns:  cleanList(c.OutputColumns),
	}
	if err := s.Validate(); err != nil {
		return reconcile.Schema{}, err
	}
	return s, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. COMPARE_KEY_COLUMNS -> compare.key_columns)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key in Viper with its
// 'default' tag value, so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
