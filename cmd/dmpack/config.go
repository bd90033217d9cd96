package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dmtypes/pack"
)

// Config holds the settings shared by every subcommand. Values come from
// flags, DMPACK_* environment variables and an optional dmpack.yaml in the
// working directory, in that order of precedence.
type Config struct {
	Verbose  bool `mapstructure:"verbose"`
	Color    bool `mapstructure:"color"`
	HexLimit int  `mapstructure:"hex_limit"`
	Dump     bool `mapstructure:"dump"`
}

var cfg Config

var flagKeys = map[string]string{
	"verbose":   "verbose",
	"color":     "color",
	"hex-limit": "hex_limit",
	"dump":      "dump",
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()

	v.SetDefault("color", true)
	v.SetDefault("hex_limit", 256)

	v.SetConfigName("dmpack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DMPACK")
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

func setup(cmd *cobra.Command) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = c

	color.NoColor = color.NoColor || !cfg.Color

	var logger *zap.Logger
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	pack.SetLogger(logger)

	return nil
}
