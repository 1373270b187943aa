package distribution

import (
	"context"
	stderrors "errors"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/gradlerepo/pkg/archive"
	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/repository"
)

// extract installs the selected entries of the kept archive and returns the
// artifact ids it selected, whether or not they had to be written.
// A nil wanted set selects by naming convention; otherwise only wanted ids match.
func (e *Engine) extract(ctx context.Context, version string, force bool, wanted map[string]bool) ([]string, error) {
	archivePath := e.ArchivePath(version)
	e.logger.Info("Extracting "+e.layout.Name+" to local Maven repository", "version", version)

	a, err := archive.OpenZip(archivePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "couldn't open %s %s distribution", e.layout.Name, version)
	}
	defer a.Close()

	var ids []string
	seen := make(map[string]bool)
	for _, entry := range a.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "%s %s extraction interrupted", e.layout.Name, version)
		}
		var (
			id string
			ok bool
		)
		if wanted == nil {
			id, ok = e.layout.Discover(entry.Name, version)
		} else {
			id, ok = e.layout.Match(entry.Name, version, wanted)
		}
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)

		bin := e.paths.BinaryPath(id, version)
		if !force && repository.Exists(bin) {
			continue
		}
		if err := e.installEntry(a, entry, bin, version); err != nil {
			return nil, err
		}
		if err := e.writeDescriptor(version, id, repository.PackagingJar); err != nil {
			return nil, err
		}
		e.hooks.OnExtract(ctx, version, id, entry.Size)
		e.logger.Debug("installed", "artifact", id, "path", bin)
	}
	return ids, nil
}

func (e *Engine) installEntry(a archive.Archive, entry archive.Entry, dest, version string) error {
	rc, err := a.Open(entry.Name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "couldn't read %s from %s %s distribution", entry.Name, e.layout.Name, version)
	}
	defer rc.Close()

	if _, err := repository.Install(dest, rc); err != nil {
		code := errors.ErrCodeFilesystem
		if isCorrupt(err) {
			code = errors.ErrCodeArchive
		}
		return errors.Wrap(code, err, "couldn't extract %s %s to %s", e.layout.Name, version, dest)
	}
	return nil
}

func isCorrupt(err error) bool {
	return stderrors.Is(err, zip.ErrChecksum) || stderrors.Is(err, zip.ErrFormat) || stderrors.Is(err, zip.ErrAlgorithm)
}
