// Package repository maps artifacts onto a local Maven-style file repository.
//
// # Layout
//
// Every artifact version lives in its own directory under the repository
// base, keyed by group, artifact id and version:
//
//	<base>/org/gradle/gradle-core/8.5/gradle-core-8.5.jar
//	<base>/org/gradle/gradle-core/8.5/gradle-core-8.5.pom
//
// [Resolver] computes these paths. It performs no I/O.
//
// # Writing
//
// [Install] streams bytes into a staging file next to the destination and
// renames it into place, so a reader never sees a partially written binary.
// [WriteDescriptor] renders a [Descriptor] (a minimal POM) and installs it the
// same way.
package repository
