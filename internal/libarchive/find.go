package libarchive

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

var ErrLibraryNotFound = errors.New("library not found")

// Finder looks libraries up in a list of directories.
type Finder struct {
	Paths  []string
	logger zerolog.Logger
}

func NewFinder(paths []string, logger zerolog.Logger) *Finder {
	return &Finder{Paths: paths, logger: logger}
}

// ParseRequirement splits "name@constraint"; the constraint may be empty.
func ParseRequirement(req string) (name, constraint string) {
	name, constraint, _ = strings.Cut(req, "@")
	return name, constraint
}

// Find opens the newest library called name whose version satisfies
// constraint. An empty constraint accepts every version. Earlier paths win
// between equal versions.
func (f *Finder) Find(name, constraint string) (*Library, error) {
	var c *semver.Constraints
	if constraint != "" {
		var err error
		if c, err = semver.NewConstraint(constraint); err != nil {
			return nil, fmt.Errorf("library %s: %w", name, err)
		}
	}

	var bestPath string
	var bestVer *semver.Version

	for _, dir := range f.Paths {
		matches, err := doublestar.Glob(os.DirFS(dir), name+"-*"+Extension)
		if err != nil {
			f.logger.Warn().Err(err).Str("dir", dir).Msg("skipping library path")
			continue
		}

		for _, match := range matches {
			v, err := semver.NewVersion(strings.TrimSuffix(strings.TrimPrefix(path.Base(match), name+"-"), Extension))
			if err != nil {
				f.logger.Debug().Str("file", match).Msg("ignoring library with a malformed version")
				continue
			}
			if c != nil && !c.Check(v) {
				f.logger.Debug().Str("file", match).Str("constraint", constraint).Msg("version not allowed")
				continue
			}
			if bestVer == nil || v.GreaterThan(bestVer) {
				bestVer = v
				bestPath = filepath.Join(dir, filepath.FromSlash(match))
			}
		}
	}

	if bestVer == nil {
		if constraint != "" {
			return nil, fmt.Errorf("%w: %s@%s", ErrLibraryNotFound, name, constraint)
		}
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
	}

	f.logger.Debug().Str("library", name).Stringer("version", bestVer).Str("path", bestPath).Msg("found library")
	lib, err := Open(bestPath)
	if err != nil {
		return nil, err
	}
	if lib.Name != name || !lib.Version.Equal(bestVer) {
		return nil, fmt.Errorf("%s: %w: file holds %s %s", bestPath, ErrInvalidManifest, lib.Name, lib.Version)
	}
	return lib, nil
}
