// Package config loads the viper configuration and holds its defaults.
package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gitlab.com/olaris/olaris-variants/helpers"
)

var ConfigDir string

func GetDefaultConfigDir() string {
	defaultConfigDir := path.Join(helpers.GetHome(), ".config", "olaris-variants")
	if configDirEnv := os.Getenv("OLARIS_VARIANTS_CONFIG_DIR"); configDirEnv != "" {
		defaultConfigDir = configDirEnv
	}

	return defaultConfigDir
}

// SetDefaults registers the default value of every key the server reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.verbose", false)
	v.SetDefault("server.DBLog", false)
	v.SetDefault("server.readHeaderTimeout", 10*time.Second)
	v.SetDefault("server.idleTimeout", 2*time.Minute)
	v.SetDefault("server.zeroconf.enabled", false)
	v.SetDefault("server.zeroconf.domain", "local.")
	v.SetDefault("server.requireTickets", false)
	v.SetDefault("server.ticketSecret", "")

	v.SetDefault("database.connection", "")

	v.SetDefault("streaming.chunkSize", 64*1024)
	v.SetDefault("streaming.writeTimeout", 30*time.Second)
	v.SetDefault("streaming.strictRanges", true)
	v.SetDefault("streaming.imageRanges", false)

	v.SetDefault("capabilities.static", []string{})
	v.SetDefault("capabilities.sessionTTL", 30*time.Minute)

	v.SetDefault("library.path", "")
	v.SetDefault("library.watch", false)

	v.SetDefault("rclone.config", helpers.GetDefaultRcloneConfigPath())
}

func InitViper() {
	if ConfigDir == "" {
		ConfigDir = GetDefaultConfigDir()
	}

	viper.SetConfigName("olaris-variants")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("olaris_variants")
	viper.AutomaticEnv()
	SetDefaults(viper.GetViper())

	viper.AddConfigPath(ConfigDir)
	viper.Set("configdir", ConfigDir)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// the user has no config file
		} else {
			logrus.WithError(err).WithField("configFile", viper.ConfigFileUsed()).Warnln("An error occurred while reading config file, contents are being ignored.")
		}
	}

	if _, err := Load(); err != nil {
		logrus.Debugf("error applying configuration: %s\n", err.Error())
	}
}

// Load returns the current configuration.
func Load() (*Config, error) {
	config := &Config{}
	err := viper.Unmarshal(config)
	return config, err
}
