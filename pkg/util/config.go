package util

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ReadConfig loads the optional config file from ./data. A missing file is
// fine, the defaults set through viper.SetDefault stay in effect.
func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
