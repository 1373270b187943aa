package repository

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
)

func TestDescriptor_Render(t *testing.T) {
	d := Descriptor{GroupID: "org.gradle", ArtifactID: "foo-bar", Version: "1.0", Packaging: PackagingJar}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
  <modelVersion>4.0.0</modelVersion>
  <groupId>org.gradle</groupId>
  <artifactId>foo-bar</artifactId>
  <version>1.0</version>
  <packaging>jar</packaging>
</project>
`
	if got := string(d.Render()); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestDescriptor_RenderIsValidXML(t *testing.T) {
	d := Descriptor{GroupID: "org.gradle", ArtifactID: "a&b", Version: "1<2", Packaging: PackagingPOM}

	var parsed struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
		Packaging  string `xml:"packaging"`
	}
	if err := xml.Unmarshal(d.Render(), &parsed); err != nil {
		t.Fatalf("Render() produced invalid XML: %v", err)
	}
	if parsed.ArtifactID != "a&b" || parsed.Version != "1<2" || parsed.Packaging != "pom" {
		t.Errorf("round trip lost values: %+v", parsed)
	}
}

func TestWriteDescriptor_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org", "gradle", "foo", "1.0", "foo-1.0.pom")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := Descriptor{GroupID: "org.gradle", ArtifactID: "foo", Version: "1.0", Packaging: PackagingJar}
	if err := WriteDescriptor(path, d); err != nil {
		t.Fatalf("WriteDescriptor() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(d.Render()) {
		t.Errorf("descriptor not regenerated, got %q", data)
	}
}
