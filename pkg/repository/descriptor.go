package repository

import (
	"bytes"
	"encoding/xml"
)

// Packaging types written into descriptors.
const (
	PackagingJar = "jar"
	PackagingPOM = "pom"
)

// Descriptor is the metadata written next to every installed binary.
type Descriptor struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string
}

const (
	pomHeader  = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	pomProject = `<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">` + "\n"
)

// Render returns the POM document for d.
// The layout is fixed; only the four values vary.
func (d Descriptor) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString(pomHeader)
	buf.WriteString(pomProject)
	buf.WriteString("  <modelVersion>4.0.0</modelVersion>\n")
	element(&buf, "groupId", d.GroupID)
	element(&buf, "artifactId", d.ArtifactID)
	element(&buf, "version", d.Version)
	element(&buf, "packaging", d.Packaging)
	buf.WriteString("</project>\n")
	return buf.Bytes()
}

func element(buf *bytes.Buffer, name, value string) {
	buf.WriteString("  <" + name + ">")
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("</" + name + ">\n")
}

// WriteDescriptor renders d and installs it at path, replacing any previous descriptor.
func WriteDescriptor(path string, d Descriptor) error {
	_, err := Install(path, bytes.NewReader(d.Render()))
	return err
}
