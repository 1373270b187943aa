// Package project rewrites the dependency list of Maven pom.xml files.
//
// A project declares a single umbrella dependency (for Gradle,
// org.gradle:gradle-all) standing for a whole distribution. Once the
// distribution has been resolved into the local repository, [POM.Rewrite]
// replaces that one <dependency> element with one element per resolved
// artifact, keeping the version text and scope of the original declaration.
// The rest of the document is preserved byte for byte, including documents
// declared in a single-byte encoding such as ISO-8859-1.
//
// [UmbrellaVersion] enforces that all projects of one build ask for the same
// distribution version.
package project
