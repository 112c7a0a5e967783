package config

import (
	"path/filepath"
	"runtime"

	"gitlab.com/tozd/go/errors"
)

// Platform is one of the operating systems Creative Cloud installs fonts on.
type Platform int

const (
	Darwin Platform = iota
	Windows
)

var ErrUnsupportedPlatform = errors.Base("unsupported platform")

func (p Platform) String() string {
	switch p {
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		panic("unknown platform")
	}
}

func DetectPlatform(goos string) (Platform, error) {
	switch goos {
	case "darwin":
		return Darwin, nil
	case "windows":
		return Windows, nil
	default:
		return 0, errors.WithDetails(ErrUnsupportedPlatform, "goos", goos)
	}
}

func CurrentPlatform() (Platform, error) {
	return DetectPlatform(runtime.GOOS)
}

// DefaultSourceDir is the CoreSync "livetype" directory where Creative
// Cloud keeps activated fonts.
func DefaultSourceDir(p Platform, home string) string {
	switch p {
	case Darwin:
		return filepath.Join(home, "Library", "Application Support", "Adobe", "CoreSync", "plugins", "livetype")
	case Windows:
		return filepath.Join(home, "AppData", "Roaming", "Adobe", "CoreSync", "plugins", "livetype")
	default:
		panic("unknown platform")
	}
}

type Source struct {
	Path string
	// Custom is true when the path came from the user rather than the
	// platform default.
	Custom bool
}

// ResolveSource returns the user's source directory made absolute, or the
// platform default when none was given.
func ResolveSource(custom, goos, home string) (Source, error) {
	if custom != "" {
		abs, err := filepath.Abs(custom)
		if err != nil {
			return Source{}, errors.WithStack(err)
		}
		return Source{Path: abs, Custom: true}, nil
	}

	platform, err := DetectPlatform(goos)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: DefaultSourceDir(platform, home)}, nil
}
