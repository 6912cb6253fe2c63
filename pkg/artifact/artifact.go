// Package artifact resolves output paths and writes the generated JSON
// documents. Artifact existence is the only resume mechanism: a file that is
// present is never regenerated or rewritten.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"citygen/pkg/catalog"
	"citygen/pkg/jsonutil"
)

// FailureLogName is the file name of the shared failure log under the root.
const FailureLogName = "failed_parts_log.json"

var prettyOptions = &pretty.Options{
	Width:  80,
	Prefix: "",
	Indent: "  ",
}

// Layout maps records and parts to paths under an output root.
type Layout struct {
	Root string
}

// Dir returns the per-record output directory, <root>/<id>_<name>.
func (l Layout) Dir(r catalog.Record) string {
	return filepath.Join(l.Root, r.ID+"_"+SanitizeName(r.Name))
}

// Path returns <root>/<id>_<name>/<id>_part<n>_<slug>.json.
func (l Layout) Path(r catalog.Record, number int, slug string) string {
	return filepath.Join(l.Dir(r), fmt.Sprintf("%s_part%d_%s.json", r.ID, number, slug))
}

// FailureLogPath returns the location of the shared failure log.
func (l Layout) FailureLogPath() string {
	return filepath.Join(l.Root, FailureLogName)
}

// SanitizeName makes a display name safe to use as one directory segment.
func SanitizeName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}

// Exists reports whether an artifact is already on disk. Contents are not
// inspected.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteJSON indents raw and writes it to path, creating parent directories.
// Non-ASCII text is written as UTF-8, never as \u escapes.
func WriteJSON(path string, raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("refusing to write invalid JSON to %s", path)
	}
	raw = jsonutil.UnescapeUnicode(raw)
	return WriteFileAtomic(path, pretty.PrettyOptions(raw, prettyOptions))
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
