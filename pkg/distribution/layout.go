package distribution

import (
	"fmt"
	"path"
	"strings"

	"github.com/matzehuels/gradlerepo/pkg/errors"
)

// Default endpoints for Gradle distributions.
const (
	GradleDistributionURL = "https://services.gradle.org/distributions/"
	GradleReleasesURL     = "https://repo.gradle.org/artifactory/libs-releases/"
)

// Layout describes how a distribution is named, where it is published and
// which archive entries are libraries.
type Layout struct {
	Name            string // Display name used in logs (e.g. "Gradle")
	GroupID         string // Maven groupId for every installed artifact
	UmbrellaID      string // Artifact id under which the archive itself is kept
	ArchivePattern  string // fmt pattern taking the version (e.g. "gradle-%s-bin.zip")
	EntryPrefix     string // Library entries have base names starting with this prefix
	DistributionURL string // Base URL the archive is downloaded from

	// CompanionID names an artifact published outside the archive. Its archive
	// entry is ignored and the jar is fetched from ReleasesURL instead.
	// Empty disables companion handling.
	CompanionID   string
	CompanionName string // Display name used in logs
	ReleasesURL   string // Maven repository base URL for the companion artifact
}

// Gradle returns the layout of the official Gradle binary distribution.
func Gradle() Layout {
	return Layout{
		Name:            "Gradle",
		GroupID:         "org.gradle",
		UmbrellaID:      "gradle-all",
		ArchivePattern:  "gradle-%s-bin.zip",
		EntryPrefix:     "gradle-",
		DistributionURL: GradleDistributionURL,
		CompanionID:     "gradle-tooling-api",
		CompanionName:   "Gradle Tooling API",
		ReleasesURL:     GradleReleasesURL,
	}
}

// WithoutCompanion returns a copy of l with companion handling disabled.
func (l Layout) WithoutCompanion() Layout {
	l.CompanionID = ""
	return l
}

// Validate checks that every field the engine relies on is set.
func (l Layout) Validate() error {
	switch {
	case l.GroupID == "":
		return errors.New(errors.ErrCodeInvalidInput, "layout groupId cannot be empty")
	case l.UmbrellaID == "":
		return errors.New(errors.ErrCodeInvalidInput, "layout umbrella artifact id cannot be empty")
	case strings.Count(l.ArchivePattern, "%s") != 1:
		return errors.New(errors.ErrCodeInvalidInput, "archive pattern %q must contain exactly one %%s", l.ArchivePattern)
	}
	if err := errors.ValidateURL(l.DistributionURL); err != nil {
		return err
	}
	if l.CompanionID != "" {
		return errors.ValidateURL(l.ReleasesURL)
	}
	return nil
}

// ArchiveName returns the archive file name for version.
func (l Layout) ArchiveName(version string) string {
	return fmt.Sprintf(l.ArchivePattern, version)
}

// ArchiveURL returns the download URL of the archive for version.
func (l Layout) ArchiveURL(version string) string {
	return joinURL(l.DistributionURL, l.ArchiveName(version))
}

// CompanionURL returns the download URL of the companion jar for version:
// <releases>/<group-path>/<id>/<version>/<id>-<version>.jar.
func (l Layout) CompanionURL(version string) string {
	groupPath := strings.ReplaceAll(l.GroupID, ".", "/")
	return joinURL(l.ReleasesURL, path.Join(groupPath, l.CompanionID, version, l.CompanionID+"-"+version+".jar"))
}

// Discover reports whether the archive entry name is a library binary of
// version and returns its artifact id.
//
// An entry qualifies when its base name starts with EntryPrefix and ends with
// "-<version>.jar". The companion entry is excluded. The artifact id is the
// base name without the "-<version>.jar" suffix. Ids that are not a valid
// path segment (such as "..") are skipped.
func (l Layout) Discover(entryName, version string) (string, bool) {
	base := path.Base(entryName)
	if !strings.HasPrefix(base, l.EntryPrefix) {
		return "", false
	}
	id, ok := artifactID(base, version)
	if !ok || (l.CompanionID != "" && id == l.CompanionID) {
		return "", false
	}
	// Entry names come from the archive and must stay inside the group directory.
	if errors.ValidateArtifactID(id) != nil {
		return "", false
	}
	return id, true
}

// Match reports whether the archive entry name is the binary of one of the
// wanted artifacts and returns that artifact id. The companion is never
// matched; it does not come from the archive.
func (l Layout) Match(entryName, version string, wanted map[string]bool) (string, bool) {
	id, ok := artifactID(path.Base(entryName), version)
	if !ok || !wanted[id] || (l.CompanionID != "" && id == l.CompanionID) {
		return "", false
	}
	return id, true
}

func artifactID(base, version string) (string, bool) {
	suffix := "-" + version + ".jar"
	if !strings.HasSuffix(base, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(base, suffix)
	return id, id != ""
}

func joinURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
