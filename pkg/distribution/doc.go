// Package distribution installs the libraries of a multi-artifact release
// into a local Maven repository.
//
// # Overview
//
// An [Engine] resolves one distribution version at a time:
//
//  1. Staleness check: decide from the local repository whether network I/O is needed.
//  2. Retrieval: download the distribution archive and, when configured, the
//     companion API jar that is published separately.
//  3. Selection: pick the archive entries that are library binaries for the version.
//  4. Materialization: install each binary and generate its POM descriptor.
//  5. Validation: report the resolved artifacts, or fail if a wanted one is missing.
//
// # Usage
//
//	engine, err := distribution.New(distribution.Options{
//	    Repository: filepath.Join(home, ".m2", "repository"),
//	    Layout:     distribution.Gradle(),
//	    Logger:     logger,
//	})
//	res, err := engine.Resolve(ctx, distribution.Request{Version: "8.5"})
//	for _, id := range res.IDs() {
//	    fmt.Println("org.gradle:" + id + ":8.5")
//	}
//
// # Modes
//
// With no [Request.Artifacts] the engine runs in discovery mode: every archive
// entry that follows the naming convention becomes an artifact. The archive is
// kept in the repository under the umbrella artifact directory so later runs
// can list it without downloading again.
//
// With explicit artifacts only the matching entries are installed, and the
// call fails with a MISSING_ARTIFACT error if any of them is still absent.
//
// # Concurrency
//
// An Engine assumes it is the only writer to its part of the repository.
// Concurrent resolutions of the same version race; the last writer wins.
package distribution
