package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/risor-io/risordbg/debugger"
)

// loadConfig reads settings from RISORDBG_* environment variables and the
// config file. Without --config, $HOME/.risordbg.yaml is read if present.
func loadConfig(v *viper.Viper) error {
	v.SetEnvPrefix("RISORDBG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := v.GetString("config")
	if explicit != "" {
		path, err := homedir.Expand(explicit)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".risordbg")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// debuggerConfig builds the session settings from flags, environment and
// config file.
func debuggerConfig(v *viper.Viper, color bool) debugger.Config {
	cfg := debugger.DefaultConfig()
	if prompt := v.GetString("prompt"); prompt != "" {
		cfg.Prompt = prompt
	}
	if n := v.GetInt("max-depth"); n > 0 {
		cfg.MaxDepth = n
	}
	if n := v.GetInt("max-items"); n > 0 {
		cfg.MaxItems = n
	}
	if n := v.GetInt("max-string-len"); n != 0 {
		cfg.MaxStringLen = n
	}
	if n := v.GetInt("list-context"); n > 0 {
		cfg.ListContext = n
	}
	cfg.BreakOnEvalError = v.GetBool("break-on-eval-error")
	cfg.Color = color && !v.GetBool("no-color")
	return cfg
}
