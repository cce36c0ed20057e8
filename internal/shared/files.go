package shared

import (
	"path/filepath"

	"github.com/spf13/viper"
)

func GetProfilePaths() (string, string, error) {
	profileFile, err := filepath.Abs(viper.GetString("profile-file"))
	if err != nil {
		return "", "", err
	}

	profileDir := filepath.Dir(profileFile)

	return profileFile, profileDir, nil
}
