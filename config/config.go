// Package config loads the command-line run configuration from a file, the
// environment and flags.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/basis"
	"github.com/basiskit/basiskit/dataset"
	"github.com/basiskit/basiskit/optimize"
	"github.com/basiskit/basiskit/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. BASISKIT_MODEL_LEARNING_RATE.
const EnvPrefix = "BASISKIT"

// Config is the full run configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Data    DataConfig    `mapstructure:"data"`
	Model   ModelConfig   `mapstructure:"model"`
	Network NetworkConfig `mapstructure:"network"`
	Plot    PlotConfig    `mapstructure:"plot"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DataConfig describes the CSV input.
type DataConfig struct {
	Path         string  `mapstructure:"path"`
	Class0       string  `mapstructure:"class0" validate:"required"`
	Class1       string  `mapstructure:"class1" validate:"required,nefield=Class0"`
	Skip         int     `mapstructure:"skip" validate:"gte=0"`
	Split        float64 `mapstructure:"split" validate:"gte=0,lte=100"`
	LabelAtStart bool    `mapstructure:"label_at_start"`
	Header       bool    `mapstructure:"header"`
	Clean        bool    `mapstructure:"clean"`
	Scale        bool    `mapstructure:"scale"`
}

// ModelConfig holds the training hyperparameters.
type ModelConfig struct {
	LearningRate float64  `mapstructure:"learning_rate" validate:"gt=0"`
	MaxIter      int      `mapstructure:"max_iter" validate:"gte=1"`
	Tol          float64  `mapstructure:"tol" validate:"gte=0"`
	Basis        []string `mapstructure:"basis" validate:"min=1,dive,required"`
	Threshold    float64  `mapstructure:"threshold" validate:"gte=0,lte=1"`
}

// NetworkConfig shapes a layered network.
type NetworkConfig struct {
	Depth      int    `mapstructure:"depth" validate:"gte=1"`
	Widths     []int  `mapstructure:"widths" validate:"dive,gte=1"`
	Activation string `mapstructure:"activation" validate:"required"`
	Seed       int64  `mapstructure:"seed"`
}

// PlotConfig selects optional outputs.
type PlotConfig struct {
	// ROC is the image path of the ROC plot; empty disables it.
	ROC string `mapstructure:"roc"`
}

// New returns a viper instance carrying the defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")

	v.SetDefault("data.path", "")
	v.SetDefault("data.class0", "0")
	v.SetDefault("data.class1", "1")
	v.SetDefault("data.skip", 0)
	v.SetDefault("data.split", 80.0)
	v.SetDefault("data.label_at_start", false)
	v.SetDefault("data.header", false)
	v.SetDefault("data.clean", false)
	v.SetDefault("data.scale", false)

	v.SetDefault("model.learning_rate", optimize.DefaultLearningRate)
	v.SetDefault("model.max_iter", optimize.DefaultMaxIter)
	v.SetDefault("model.tol", optimize.DefaultTol)
	v.SetDefault("model.basis", basis.Linear().Names())
	v.SetDefault("model.threshold", 0.5)

	v.SetDefault("network.depth", 1)
	v.SetDefault("network.widths", []int{1, 1, 1})
	v.SetDefault("network.activation", activation.Sigmoid.Name)
	v.SetDefault("network.seed", int64(-1))

	v.SetDefault("plot.roc", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional file at path into v, decodes and validates it.
// The file format follows its extension (yaml, toml, json).
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and that the named basis and activation
// functions exist.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(fe.Namespace(), "failed the '"+fe.Tag()+"' rule", fe.Value())
		}
		return errors.Wrap(err, "validate config")
	}
	if want := c.Network.Depth + 2; len(c.Network.Widths) != want {
		return errors.NewValidationError("Config.Network.Widths", "need one width per layer including input and output", c.Network.Widths)
	}
	if _, err := c.BasisSet(); err != nil {
		return err
	}
	if _, err := activation.Lookup(c.Network.Activation); err != nil {
		return err
	}
	return nil
}

// BasisSet resolves Model.Basis.
func (c *Config) BasisSet() (basis.Set, error) {
	return basis.NewSet(c.Model.Basis...)
}

// DatasetOptions maps Data onto the loader options.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		Class0:       c.Data.Class0,
		Class1:       c.Data.Class1,
		Skip:         c.Data.Skip,
		Split:        c.Data.Split,
		LabelAtStart: c.Data.LabelAtStart,
		Header:       c.Data.Header,
		Clean:        c.Data.Clean,
		Scale:        c.Data.Scale,
	}
}
