package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// Config is the swapd configuration, read from a yaml file. Every field has
// a sensible default so running without a file works.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Rent     struct {
		BaseCost      uint64 `yaml:"base_cost"`
		NativePerByte uint64 `yaml:"native_per_byte"`
	} `yaml:"rent"`
}

func loadConfig(path string) (Config, error) {
	var conf Config
	conf.LogLevel = "info"
	conf.Rent.BaseCost = ledger.DefaultRent.BaseCost
	conf.Rent.NativePerByte = ledger.DefaultRent.NativePerByte

	if path == "" {
		return conf, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "read configuration: %v", err)
	}
	if err := yaml.UnmarshalStrict(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "parse configuration: %v", err)
	}
	return conf, nil
}

func (c Config) logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %v", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	return log, nil
}

func (c Config) rent() ledger.Rent {
	return ledger.Rent{
		BaseCost:      c.Rent.BaseCost,
		NativePerByte: c.Rent.NativePerByte,
	}
}
