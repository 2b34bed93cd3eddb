package specs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed timelines/*.yaml
var TimelinesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is the on-disk root checked before the embedded copies, so edited files
// win over the built-in ones.
var Dir = "specs"

// Load reads a timeline file by name, from disk first.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name, "timelines")
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return TimelinesFS.ReadFile(clean)
}

// LoadScript reads a director script by name, from disk first.
func LoadScript(name string) ([]byte, error) {
	clean := cleanPath(name, "scripts")
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the modification time of the on-disk copy of a timeline.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name, "timelines")))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// DiskPath is where Load looks for name on disk.
func DiskPath(name string) string {
	return diskPath(cleanPath(name, "timelines"))
}

func cleanPath(name, sub string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "specs/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, sub+"/"); ok {
		s = after
	}
	return sub + "/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
