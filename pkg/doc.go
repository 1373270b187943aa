// Package pkg provides the libraries behind gradlerepo.
//
// # Overview
//
// gradlerepo installs Gradle distributions into a local Maven repository so
// that Maven builds can depend on Gradle's jars directly. A distribution
// archive is downloaded once, its jars are extracted to
// <base>/org/gradle/<id>/<version>/<id>-<version>.jar, and a minimal POM
// descriptor is written next to each jar.
//
// The typical data flow:
//
//	pom.xml declaring org.gradle:gradle-all
//	         ↓
//	    [project] package (find the umbrella version)
//	         ↓
//	    [distribution] package (download, extract, describe)
//	         ↓
//	    [repository] package (paths + POM descriptors)
//	         ↓
//	pom.xml rewritten to one dependency per jar
//
// # Quick Start
//
//	engine, _ := distribution.New(distribution.Options{
//	    Repository: "/home/me/.m2/repository",
//	})
//	res, _ := engine.Resolve(ctx, distribution.Request{Version: "8.5"})
//	for _, id := range res.IDs() {
//	    fmt.Println(id)
//	}
//
// # Main Packages
//
// [distribution] - The fetch-and-extract engine and the Gradle naming policy
// (archive name, entry prefix, companion tooling API artifact).
//
// [repository] - Repository path resolution, POM descriptor rendering and
// atomic file installs.
//
// [archive] - Read-only access to zip distribution archives.
//
// [fetch] - Single-file HTTP downloads with explicit proxy settings.
//
// [project] - pom.xml parsing and umbrella dependency rewriting.
//
// [config] - The optional TOML configuration file.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Hooks for download and extraction events.
//
// # Testing
//
//	go test ./pkg/...
//
// [distribution]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/distribution
// [repository]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/repository
// [archive]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/archive
// [fetch]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/fetch
// [project]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/project
// [config]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/gradlerepo/pkg/observability
package pkg
