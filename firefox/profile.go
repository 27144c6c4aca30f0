// Package firefox reads bookmarks and browsing history from a Firefox
// profile, located through profiles.ini, and exposes them as links.
package firefox

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"
)

// profilesFile maps installs to their default profiles.
const profilesFile = "profiles.ini"

// DefaultProfileDir locates the default Firefox profile through
// profiles.ini. Modern installs record their default profile in an
// [Install*] section; older files mark one [Profile*] section with
// Default=1.
func DefaultProfileDir() (string, error) {
	root, err := firefoxRoot()
	if err != nil {
		return "", err
	}
	return ProfileFromINI(root, filepath.Join(root, profilesFile))
}

// ProfileFromINI resolves the default profile recorded in the given
// profiles.ini, with relative paths resolved against root.
func ProfileFromINI(root, path string) (string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", profilesFile, err)
	}

	for _, section := range cfg.Sections() {
		if !strings.HasPrefix(section.Name(), "Install") {
			continue
		}
		if p := section.Key("Default").String(); p != "" {
			return filepath.Join(root, filepath.FromSlash(p)), nil
		}
	}

	for _, section := range cfg.Sections() {
		if !strings.HasPrefix(section.Name(), "Profile") {
			continue
		}
		if section.Key("Default").String() != "1" {
			continue
		}
		p := section.Key("Path").String()
		if p == "" {
			continue
		}
		if section.Key("IsRelative").String() == "0" {
			return p, nil
		}
		return filepath.Join(root, filepath.FromSlash(p)), nil
	}

	return "", fmt.Errorf("no default profile in %s", path)
}

// firefoxRoot returns the directory holding profiles.ini for the
// current user and operating system.
func firefoxRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Mozilla", "Firefox"), nil
	default:
		return filepath.Join(home, ".mozilla", "firefox"), nil
	}
}
