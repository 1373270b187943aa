package repository

import (
	"path/filepath"
	"strings"
)

// File extensions used in the repository.
const (
	BinaryExt     = "jar"
	DescriptorExt = "pom"
)

// Resolver computes canonical paths for artifacts of a single group.
//
// All methods are pure and deterministic; they never touch the filesystem.
// Inputs are trusted: callers validate artifact ids and versions beforehand.
type Resolver struct {
	base    string
	groupID string
}

// NewResolver creates a Resolver rooted at base for the given Maven groupId.
// The groupId is split on dots into directory segments ("org.gradle" → "org/gradle").
func NewResolver(base, groupID string) *Resolver {
	return &Resolver{base: filepath.Clean(base), groupID: groupID}
}

// Base returns the repository base directory.
func (r *Resolver) Base() string { return r.base }

// GroupID returns the Maven groupId this resolver lays out.
func (r *Resolver) GroupID() string { return r.groupID }

// GroupDir returns <base>/<namespace-path>.
func (r *Resolver) GroupDir() string {
	return filepath.Join(append([]string{r.base}, strings.Split(r.groupID, ".")...)...)
}

// Dir returns <base>/<namespace-path>/<artifact>/<version>.
func (r *Resolver) Dir(artifact, version string) string {
	return filepath.Join(r.GroupDir(), artifact, version)
}

// BinaryPath returns the path of the artifact's jar.
func (r *Resolver) BinaryPath(artifact, version string) string {
	return r.File(artifact, version, BinaryExt)
}

// DescriptorPath returns the path of the artifact's generated POM.
func (r *Resolver) DescriptorPath(artifact, version string) string {
	return r.File(artifact, version, DescriptorExt)
}

// File returns Dir(artifact, version)/<artifact>-<version>.<ext>.
func (r *Resolver) File(artifact, version, ext string) string {
	return filepath.Join(r.Dir(artifact, version), FileName(artifact, version, ext))
}

// FileName returns the Maven file name <artifact>-<version>.<ext>.
func FileName(artifact, version, ext string) string {
	return artifact + "-" + version + "." + ext
}
