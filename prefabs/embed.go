// Package prefabs holds the pet's data files: the pet prefab and its voice
// script. Both are embedded; a copy on disk under DiskRoot wins, which is
// what makes hot reload work.
package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	rootMu   sync.RWMutex
	diskRoot = "prefabs"
)

// SetDiskRoot changes the directory searched before the embedded files.
func SetDiskRoot(dir string) {
	rootMu.Lock()
	diskRoot = dir
	rootMu.Unlock()
}

func DiskRoot() string {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return diskRoot
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// IsScript reports whether a changed file is a voice script.
func IsScript(path string) bool {
	return isScriptFile(path)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(filepath.Base(path))
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(DiskRoot(), filepath.FromSlash(clean))
}
