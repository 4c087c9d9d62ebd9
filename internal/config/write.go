package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// SetKeyInFile updates or adds an option in the config file, keeping every
// other line as it was. section is "" for the global block. An existing line
// for the key is replaced in place; otherwise the line is added at the end
// of the section, and a missing section is appended to the file.
func SetKeyInFile(path, section, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "reading config file")
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	newLine := key
	if value != "" {
		newLine = key + " " + value
	}

	inSection := section == ""
	sectionFound := section == ""
	end := -1
	found := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if inSection {
				end = i
			}
			inSection = strings.TrimSpace(strings.Trim(trimmed, "[]")) == section
			if inSection {
				sectionFound = true
				end = -1
			}
			continue
		}
		if !inSection || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = newLine
			found = true
			break
		}
	}

	switch {
	case found:
	case !sectionFound:
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "["+section+"]", newLine)
	default:
		if end < 0 {
			end = len(lines)
		}
		// keep blank separators after the section's last option
		for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
			end--
		}
		lines = slices.Insert(lines, end, newLine)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return writeFileAtomic(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temporary file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temporary file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replacing config file")
}
