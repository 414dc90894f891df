package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AnalyzeConfig holds settings for the analyze stage.
type AnalyzeConfig struct {
	APIURL        string
	APIKey        string
	Address       string
	WrappedNative string
	FeeWallet     string
	FeeCurrency   string
	RequestDelay  time.Duration
	HTTPTimeout   time.Duration
	Out           string
	GeneralOut    string
	LogLevel      string
}

// CyclesConfig holds settings for the cycles stage.
type CyclesConfig struct {
	In        string
	Out       string
	Address   string
	FeeWallet string
	FeeRate   float64
	PGDSN     string
	BatchSize int
	LogLevel  string
}

// LoadAnalyze merges config file, environment variables, and flags.
func LoadAnalyze(cfgFile string, flags *pflag.FlagSet) (AnalyzeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"api-url":        "https://api.bscscan.com/api",
		"wrapped-native": "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c",
		"fee-wallet":     "0x9ce26e127c6769f22df01991df0c9825ff883395",
		"fee-currency":   "WBNB",
		"request-delay":  250 * time.Millisecond,
		"http-timeout":   30 * time.Second,
		"out":            "./data/events.jsonl",
		"general-out":    "./data/general.jsonl",
		"log-level":      "info",
	})
	if err != nil {
		return AnalyzeConfig{}, err
	}

	return AnalyzeConfig{
		APIURL:        v.GetString("api-url"),
		APIKey:        v.GetString("api-key"),
		Address:       v.GetString("address"),
		WrappedNative: v.GetString("wrapped-native"),
		FeeWallet:     v.GetString("fee-wallet"),
		FeeCurrency:   v.GetString("fee-currency"),
		RequestDelay:  v.GetDuration("request-delay"),
		HTTPTimeout:   v.GetDuration("http-timeout"),
		Out:           v.GetString("out"),
		GeneralOut:    v.GetString("general-out"),
		LogLevel:      v.GetString("log-level"),
	}, nil
}

// LoadCycles merges config file, environment variables, and flags.
func LoadCycles(cfgFile string, flags *pflag.FlagSet) (CyclesConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":        "./data/cycles.jsonl",
		"fee-wallet": "0x9ce26e127c6769f22df01991df0c9825ff883395",
		"fee-rate":   0.10,
		"batch-size": 1000,
		"log-level":  "info",
	})
	if err != nil {
		return CyclesConfig{}, err
	}

	return CyclesConfig{
		In:        v.GetString("in"),
		Out:       v.GetString("out"),
		Address:   v.GetString("address"),
		FeeWallet: v.GetString("fee-wallet"),
		FeeRate:   v.GetFloat64("fee-rate"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
