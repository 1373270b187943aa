package project

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"

	"github.com/matzehuels/gradlerepo/pkg/errors"
)

// UmbrellaVersion returns the single interpolated version of the umbrella
// dependency declared across poms. Projects without the dependency are skipped.
// ok is false when no project declares it. Two or more distinct versions are an
// INCONSISTENT_VERSIONS error naming every version found.
func UmbrellaVersion(poms []*POM, groupID, artifactID string) (version string, ok bool, err error) {
	versions := make(map[string][]string)
	for _, p := range poms {
		d, found := p.Find(groupID, artifactID)
		if !found {
			continue
		}
		v := p.Interpolate(d.Version)
		versions[v] = append(versions[v], p.Path)
		version = v
	}
	switch len(versions) {
	case 0:
		return "", false, nil
	case 1:
		if version == "" {
			return "", true, errors.New(errors.ErrCodeInvalidManifest, "%s:%s is declared without a version", groupID, artifactID)
		}
		return version, true, nil
	}

	found := make([]string, 0, len(versions))
	for v := range versions {
		found = append(found, v)
	}
	sort.Strings(found)
	return "", true, errors.New(errors.ErrCodeInconsistentVersions,
		"%s:%s is declared with several versions (%s); use a single version across the build",
		groupID, artifactID, strings.Join(found, ", "))
}

// Rewrite replaces the first groupID:umbrellaID dependency with one dependency
// per id in ids, copying the umbrella's version text and scope. It reports
// whether the umbrella was found. The POM is updated in place and re-parsed.
func (p *POM) Rewrite(groupID, umbrellaID string, ids []string) (bool, error) {
	d, ok := p.Find(groupID, umbrellaID)
	if !ok {
		return false, nil
	}

	indent := lineIndent(p.data, d.start)
	var buf bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			buf.WriteString("\n" + indent)
		}
		writeDependency(&buf, indent, Dependency{
			GroupID:    groupID,
			ArtifactID: id,
			Version:    d.Version,
			Scope:      d.Scope,
		})
	}

	out := make([]byte, 0, len(p.data)+buf.Len())
	out = append(out, p.data[:d.start]...)
	out = append(out, encode(p.charmap, buf.Bytes())...)
	out = append(out, p.data[d.end:]...)

	parsed, err := Parse(out)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "rewritten %s is not valid", p.Path)
	}
	parsed.Path = p.Path
	*p = *parsed
	return true, nil
}

func writeDependency(buf *bytes.Buffer, indent string, d Dependency) {
	inner := indent + indentUnit(indent)
	buf.WriteString("<dependency>\n")
	field := func(name, value string) {
		if value == "" {
			return
		}
		buf.WriteString(inner + "<" + name + ">")
		_ = xml.EscapeText(buf, []byte(value))
		buf.WriteString("</" + name + ">\n")
	}
	field("groupId", d.GroupID)
	field("artifactId", d.ArtifactID)
	field("version", d.Version)
	field("scope", d.Scope)
	buf.WriteString(indent + "</dependency>")
}

// lineIndent returns the whitespace between the previous newline and offset,
// or "" if anything else precedes the element on its line.
func lineIndent(data []byte, offset int64) string {
	lineStart := bytes.LastIndexByte(data[:offset], '\n') + 1
	prefix := string(data[lineStart:offset])
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func indentUnit(indent string) string {
	if strings.Contains(indent, "\t") {
		return "\t"
	}
	return "  "
}

// Report is the outcome of [Check].
type Report struct {
	Path     string
	Declared bool
	Version  string // Interpolated umbrella version, if declared
}

// Check reports whether p declares the groupID:umbrellaID dependency.
// It never modifies p.
func Check(p *POM, groupID, umbrellaID string) Report {
	r := Report{Path: p.Path}
	if d, ok := p.Find(groupID, umbrellaID); ok {
		r.Declared = true
		r.Version = p.Interpolate(d.Version)
	}
	return r
}
