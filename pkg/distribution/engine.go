package distribution

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/fetch"
	"github.com/matzehuels/gradlerepo/pkg/observability"
	"github.com/matzehuels/gradlerepo/pkg/repository"
)

// Downloader fetches a remote file to a local path, replacing any existing file.
// [fetch.Client] is the production implementation.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (*fetch.Download, error)
}

// Options configures an [Engine].
type Options struct {
	Repository string                     // Repository base directory (required)
	Layout     Layout                     // Distribution layout; zero value means Gradle()
	Downloader Downloader                 // Optional; defaults to a direct fetch.Client
	Logger     *log.Logger                // Optional; defaults to log.Default()
	Hooks      observability.ResolveHooks // Optional; defaults to observability.Noop
}

// Request is one resolution.
type Request struct {
	Version string // Distribution version (required)
	Force   bool   // Re-download and rewrite everything even if present locally

	// Artifacts restricts resolution to these artifact ids.
	// Empty selects discovery mode.
	Artifacts []string
}

// Engine resolves distribution versions into a local repository.
//
// An Engine holds no per-resolution state; it is not safe for concurrent
// resolutions of the same version against the same repository.
type Engine struct {
	layout     Layout
	paths      *repository.Resolver
	downloader Downloader
	logger     *log.Logger
	hooks      observability.ResolveHooks
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Repository == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "repository directory cannot be empty")
	}
	layout := opts.Layout
	if layout.GroupID == "" {
		layout = Gradle()
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = observability.Noop{}
	}
	downloader := opts.Downloader
	if downloader == nil {
		c, err := fetch.NewClient(fetch.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		downloader = c
	}

	return &Engine{
		layout:     layout,
		paths:      repository.NewResolver(opts.Repository, layout.GroupID),
		downloader: downloader,
		logger:     logger,
		hooks:      hooks,
	}, nil
}

// Layout returns the distribution layout.
func (e *Engine) Layout() Layout { return e.layout }

// Paths returns the repository path resolver.
func (e *Engine) Paths() *repository.Resolver { return e.paths }

// ArchivePath returns where the archive of version is kept.
func (e *Engine) ArchivePath(version string) string {
	return filepath.Join(e.paths.Dir(e.layout.UmbrellaID, version), e.layout.ArchiveName(version))
}

// Resolve makes the repository satisfy req and reports the resolved artifacts.
//
// Any retrieval, archive or filesystem failure aborts the resolution with a
// coded error naming the version. No step is retried.
func (e *Engine) Resolve(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if err := errors.ValidateVersion(req.Version); err != nil {
		return nil, err
	}
	for _, id := range req.Artifacts {
		if err := errors.ValidateArtifactID(id); err != nil {
			return nil, err
		}
	}

	var (
		res *Result
		err error
	)
	if len(req.Artifacts) == 0 {
		res, err = e.discover(ctx, req)
	} else {
		res, err = e.resolveWanted(ctx, req)
	}

	count := 0
	if res != nil {
		count = len(res.Artifacts)
	}
	e.hooks.OnResolveComplete(ctx, req.Version, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	e.logger.Info("resolved distribution",
		"name", e.layout.Name,
		"version", req.Version,
		"artifacts", count,
		"downloaded", res.Downloaded,
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// discover installs every library of the archive.
func (e *Engine) discover(ctx context.Context, req Request) (*Result, error) {
	v := req.Version
	archivePath := e.ArchivePath(v)
	downloaded := false

	if req.Force || !repository.Exists(archivePath) {
		if err := e.downloadDistribution(ctx, v); err != nil {
			return nil, err
		}
		downloaded = true
	} else {
		e.logger.Debug("distribution archive already present", "path", archivePath)
	}

	ids, err := e.extract(ctx, v, req.Force, nil)
	if err != nil && !downloaded && errors.Is(err, errors.ErrCodeArchive) {
		e.logger.Warn("kept distribution archive is unreadable, downloading it again", "path", archivePath, "err", err)
		if err := e.downloadDistribution(ctx, v); err != nil {
			return nil, err
		}
		downloaded = true
		ids, err = e.extract(ctx, v, req.Force, nil)
	}
	if err != nil {
		return nil, err
	}

	if id := e.layout.CompanionID; id != "" {
		if req.Force || !repository.Exists(e.paths.BinaryPath(id, v)) {
			if err := e.downloadCompanion(ctx, v); err != nil {
				return nil, err
			}
			downloaded = true
		}
		ids = append(ids, id)
	}

	return e.result(v, ids, downloaded), nil
}

// resolveWanted installs only the requested artifacts and fails if one is still missing.
func (e *Engine) resolveWanted(ctx context.Context, req Request) (*Result, error) {
	v := req.Version
	wanted := uniq(req.Artifacts)
	downloaded := false

	if !req.Force && e.missing(v, wanted) == "" {
		e.logger.Debug("all requested artifacts already present", "version", v, "artifacts", len(wanted))
		return e.result(v, wanted, false), nil
	}

	fromArchive := make(map[string]bool, len(wanted))
	for _, id := range wanted {
		if id == e.layout.CompanionID {
			if req.Force || !repository.Exists(e.paths.BinaryPath(id, v)) {
				if err := e.downloadCompanion(ctx, v); err != nil {
					return nil, err
				}
				downloaded = true
			}
			continue
		}
		fromArchive[id] = true
	}

	if len(fromArchive) > 0 && (req.Force || e.missing(v, keys(fromArchive)) != "") {
		archivePath := e.ArchivePath(v)
		if req.Force || !repository.Exists(archivePath) {
			if err := e.downloadDistribution(ctx, v); err != nil {
				return nil, err
			}
			downloaded = true
		}
		_, err := e.extract(ctx, v, req.Force, fromArchive)
		if err != nil && !downloaded && errors.Is(err, errors.ErrCodeArchive) {
			e.logger.Warn("kept distribution archive is unreadable, downloading it again", "path", archivePath, "err", err)
			if err := e.downloadDistribution(ctx, v); err != nil {
				return nil, err
			}
			downloaded = true
			_, err = e.extract(ctx, v, req.Force, fromArchive)
		}
		if err != nil {
			return nil, err
		}
	}

	if path := e.missing(v, wanted); path != "" {
		return nil, errors.Wrap(errors.ErrCodeMissingArtifact,
			&errors.MissingArtifactError{Version: v, Path: path},
			"%s %s is missing %s", e.layout.Name, v, filepath.Base(path))
	}
	return e.result(v, wanted, downloaded), nil
}

// missing returns the binary path of the first id in ids that is not installed, or "".
func (e *Engine) missing(version string, ids []string) string {
	for _, id := range ids {
		if p := e.paths.BinaryPath(id, version); !repository.Exists(p) {
			return p
		}
	}
	return ""
}

func (e *Engine) downloadDistribution(ctx context.Context, version string) error {
	url := e.layout.ArchiveURL(version)
	if err := e.download(ctx, version, e.layout.Name, url, e.ArchivePath(version)); err != nil {
		return err
	}
	return e.writeDescriptor(version, e.layout.UmbrellaID, repository.PackagingPOM)
}

func (e *Engine) downloadCompanion(ctx context.Context, version string) error {
	id := e.layout.CompanionID
	name := e.layout.CompanionName
	if name == "" {
		name = id
	}
	if err := e.download(ctx, version, name, e.layout.CompanionURL(version), e.paths.BinaryPath(id, version)); err != nil {
		return err
	}
	return e.writeDescriptor(version, id, repository.PackagingJar)
}

func (e *Engine) download(ctx context.Context, version, name, url, dest string) error {
	e.logger.Info("Downloading "+name, "version", version, "url", url)
	start := time.Now()
	e.hooks.OnDownloadStart(ctx, version, url)

	d, err := e.downloader.Download(ctx, url, dest)

	var size int64
	if d != nil {
		size = d.Size
	}
	e.hooks.OnDownloadComplete(ctx, version, url, size, time.Since(start), err)
	if err != nil {
		code := errors.ErrCodeFilesystem
		switch {
		case ctx.Err() != nil:
			code = errors.ErrCodeCanceled
		case stderrors.Is(err, fetch.ErrNetwork) || stderrors.Is(err, fetch.ErrStatus):
			code = errors.ErrCodeRetrieval
		}
		return errors.Wrap(code, err, "couldn't download %s %s from %s", name, version, url)
	}
	e.logger.Info(name+" download complete", "version", version, "bytes", size)
	return nil
}

func (e *Engine) writeDescriptor(version, id, packaging string) error {
	path := e.paths.DescriptorPath(id, version)
	err := repository.WriteDescriptor(path, repository.Descriptor{
		GroupID:    e.layout.GroupID,
		ArtifactID: id,
		Version:    version,
		Packaging:  packaging,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "couldn't write descriptor %s for %s %s", path, e.layout.Name, version)
	}
	return nil
}

func uniq(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
