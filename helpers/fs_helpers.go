package helpers

import (
	"fmt"
	"os"
	"os/user"
	"path"

	"github.com/spf13/viper"
)

func GetHome() string {
	usr, err := user.Current()
	if err != nil {
		panic(fmt.Sprintf("Failed to determine user's home directory, error: '%s'\n", err.Error()))
	}
	return usr.HomeDir
}

// BaseConfigPath is the directory holding the config file, the database and
// the ticket secret.
func BaseConfigPath() string {
	if dir := viper.GetString("configdir"); dir != "" {
		return dir
	}
	if dir := os.Getenv("OLARIS_VARIANTS_CONFIG_DIR"); dir != "" {
		return dir
	}
	return path.Join(GetHome(), ".config", "olaris-variants")
}

func LogPath() string {
	return path.Join(BaseConfigPath(), "log")
}

// DatabasePath is where the default sqlite catalog lives.
func DatabasePath() string {
	return path.Join(BaseConfigPath(), "catalog.db")
}

func GetDefaultRcloneConfigPath() string {
	return path.Join(GetHome(), ".config", "rclone", "rclone.conf")
}
