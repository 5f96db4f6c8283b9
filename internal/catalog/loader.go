package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/growthlab/internal/challenge"
)

// SupportedMajor is the catalog file format major version this build reads.
const SupportedMajor = "v1"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// file is the on-disk shape of a catalog file.
type file struct {
	Version    string                `yaml:"version"`
	Challenges []challenge.Challenge `yaml:"challenges"`
}

// Parse decodes one catalog document. source names it in errors.
func Parse(data []byte, source string) ([]challenge.Challenge, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: parse YAML: %w", source, err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return f.Challenges, nil
}

func checkVersion(v string) error {
	if v == "" {
		return errors.New("version is required")
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version (want e.g. %s.0.0)", v, SupportedMajor)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("version %s is not supported (want %s.x.y)", v, SupportedMajor)
	}
	return nil
}

// LoadFile reads and parses a single catalog file.
func LoadFile(path string) ([]challenge.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data, path)
}

// LoadDir loads every *.yaml and *.yml file in dir and its immediate
// subdirectories, in lexical order, into one catalog.
func LoadDir(dir string) (*Catalog, error) {
	return loadFS(os.DirFS(dir), dir)
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	return loadFS(sub, "builtin")
}

func loadFS(fsys fs.FS, root string) (*Catalog, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*/*.yaml", "*/*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", root)
	}
	sort.Strings(files)

	var all []challenge.Challenge
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		chs, err := Parse(data, filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		all = append(all, chs...)
	}
	return New(all)
}
