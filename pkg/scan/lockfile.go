package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Lock file names per package manager.
const (
	PackageLockJSON = "package-lock.json"
	YarnLock        = "yarn.lock"
	PnpmLockYAML    = "pnpm-lock.yaml"
)

// Package manager names.
const (
	ManagerNPM  = "npm"
	ManagerYarn = "yarn"
	ManagerPnpm = "pnpm"
)

// Manager describes the package manager detected at the scan root.
// The zero value means no lock file was found.
type Manager struct {
	Name            string `json:"name,omitempty"`
	Lockfile        string `json:"lockfile,omitempty"`
	LockfileVersion string `json:"lockfile_version,omitempty"`
}

// DetectManager inspects the scan root for lock files. Detection is
// informational only; it never changes traversal. Unreadable or
// unparseable lock files degrade to a detection without a version.
func DetectManager(root string, logf func(string, ...any)) Manager {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	if path := filepath.Join(root, PnpmLockYAML); exists(path) {
		return Manager{
			Name:            ManagerPnpm,
			Lockfile:        PnpmLockYAML,
			LockfileVersion: pnpmLockVersion(path, logf),
		}
	}
	if exists(filepath.Join(root, YarnLock)) {
		return Manager{Name: ManagerYarn, Lockfile: YarnLock}
	}
	if path := filepath.Join(root, PackageLockJSON); exists(path) {
		return Manager{
			Name:            ManagerNPM,
			Lockfile:        PackageLockJSON,
			LockfileVersion: npmLockVersion(path, logf),
		}
	}
	return Manager{}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// pnpmLockVersion reads the lockfileVersion field of a pnpm-lock.yaml.
// The field switched from float to string across pnpm majors, so it is
// decoded loosely.
func pnpmLockVersion(path string, logf func(string, ...any)) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logf("read %s: %v", path, err)
		return ""
	}
	var lock struct {
		LockfileVersion any `yaml:"lockfileVersion"`
	}
	if err := yaml.Unmarshal(data, &lock); err != nil {
		logf("parse %s: %v", path, err)
		return ""
	}
	if lock.LockfileVersion == nil {
		return ""
	}
	return fmt.Sprint(lock.LockfileVersion)
}

// npmLockVersion reads the lockfileVersion field of a package-lock.json.
func npmLockVersion(path string, logf func(string, ...any)) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logf("read %s: %v", path, err)
		return ""
	}
	var lock struct {
		LockfileVersion int `json:"lockfileVersion"`
	}
	if err := json.Unmarshal(data, &lock); err != nil {
		logf("parse %s: %v", path, err)
		return ""
	}
	if lock.LockfileVersion == 0 {
		return ""
	}
	return fmt.Sprint(lock.LockfileVersion)
}
