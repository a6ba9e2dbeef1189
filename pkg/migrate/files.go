package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	versionLayout = "20060102150405"

	upMarker    = "-- +goose Up"
	downMarker  = "-- +goose Down"
	beginMarker = "-- +goose StatementBegin"
	endMarker   = "-- +goose StatementEnd"
)

var (
	migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	nameSanitizeRe  = regexp.MustCompile(`[^a-z0-9]+`)

	// ErrNoMigrations is returned when a directory holds no .sql files.
	ErrNoMigrations = errors.New("no migrations found")
)

// File is a parsed migration filename.
type File struct {
	Version string
	Name    string
	Path    string
}

// ParseFilename splits <YYYYMMDDHHMMSS>_<name>.sql into its parts.
func ParseFilename(filename string) (File, error) {
	m := migrationFileRe.FindStringSubmatch(filename)
	if m == nil {
		return File{}, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", filename)
	}
	if _, err := time.Parse(versionLayout, m[1]); err != nil {
		return File{}, fmt.Errorf("migration %q has an invalid timestamp: %w", filename, err)
	}
	return File{Version: m[1], Name: m[2], Path: filename}, nil
}

// SanitizeName turns a free-form label like "Add product badges" into
// add_product_badges.
func SanitizeName(name string) string {
	safe := nameSanitizeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(safe, "_")
}

// CreateSQLMigration writes an empty goose migration stamped with the
// current UTC time and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createAt(dir, name, time.Now().UTC())
}

func createAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q is empty after sanitizing", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.Format(versionLayout), safe))
	body := fmt.Sprintf("%s\n%s\n-- %s\n%s\n\n%s\n%s\n-- revert %s\n%s\n",
		upMarker, beginMarker, safe, endMarker,
		downMarker, beginMarker, safe, endMarker)

	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("migration already exists: %s", fullpath)
		}
		return "", fmt.Errorf("create migration %q: %w", fullpath, err)
	}
	defer f.Close()
	if _, err := f.WriteString(body); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

// ValidateDir checks every .sql file in dir: filename shape, unique
// versions, an Up section ahead of a Down section, and balanced
// StatementBegin/StatementEnd markers.
func ValidateDir(dir string) error {
	files, err := ListDir(dir)
	if err != nil {
		return err
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", f.Version, filepath.Base(prev), filepath.Base(f.Path))
		}
		seen[f.Version] = f.Path

		b, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Path, err)
		}
		if err := validateBody(string(b)); err != nil {
			return fmt.Errorf("migration %q: %w", filepath.Base(f.Path), err)
		}
	}
	return nil
}

// ListDir returns the migrations in dir ordered by version.
func ListDir(dir string) ([]File, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		f, err := ParseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		f.Path = filepath.Join(dir, e.Name())
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoMigrations, dir)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func validateBody(txt string) error {
	up := strings.Index(txt, upMarker)
	down := strings.Index(txt, downMarker)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", upMarker)
	case down < 0:
		return fmt.Errorf("missing %q", downMarker)
	case down < up:
		return fmt.Errorf("%q must come before %q", upMarker, downMarker)
	}

	open := 0
	for _, line := range strings.Split(txt, "\n") {
		switch strings.TrimSpace(line) {
		case beginMarker:
			if open > 0 {
				return fmt.Errorf("nested %q", beginMarker)
			}
			open++
		case endMarker:
			if open == 0 {
				return fmt.Errorf("%q without matching begin", endMarker)
			}
			open--
		}
	}
	if open != 0 {
		return fmt.Errorf("unterminated %q", beginMarker)
	}
	return nil
}
