package fileio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/leocov-dev/modgrab/core"
)

// LoadProfile loads the instance metadata to a Profile struct
func LoadProfile(profilePath string) (*core.Profile, error) {
	var profile core.Profile
	raw, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}

	profile.SetFilePath(profilePath)

	// Check profile-format
	if len(profile.ProfileFormat) == 0 {
		fmt.Println("Profile has no profile-format field; assuming " + core.CurrentProfileFormat)
		profile.ProfileFormat = core.CurrentProfileFormat
	}
	if !strings.HasPrefix(profile.ProfileFormat, "modgrab:") {
		return nil, errors.New("profile-format field does not indicate a valid modgrab profile")
	}
	ver, err := semver.StrictNewVersion(strings.TrimPrefix(profile.ProfileFormat, "modgrab:"))
	if err != nil {
		return nil, fmt.Errorf("profile-format field is not valid semver: %w", err)
	}
	if !core.ProfileFormatConstraintAccepted.Check(ver) {
		return nil, errors.New("the profile is incompatible with this version of modgrab; please update")
	}

	// Read options into viper
	if profile.Options != nil {
		err := viper.MergeConfigMap(profile.Options)
		if err != nil {
			return nil, err
		}
	}

	return &profile, nil
}

// WriteProfile saves a profile back to its file.
func WriteProfile(profile *core.Profile) error {
	path := profile.GetFilePath()
	if path == "" {
		return errors.New("profile has no file path set")
	}
	f, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(profile)
}
