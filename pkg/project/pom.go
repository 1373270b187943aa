package project

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/matzehuels/gradlerepo/pkg/errors"
)

// Dependency is one <dependency> of project/dependencies.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string // Raw text, possibly a ${property} reference
	Scope      string
	Optional   string

	start, end int64 // Byte range of the <dependency> element
}

// POM is a parsed pom.xml.
type POM struct {
	Path         string
	GroupID      string
	ArtifactID   string
	Version      string
	Properties   map[string]string
	Dependencies []Dependency

	data    []byte
	charmap *charmap.Charmap
}

// ParsePOM reads and parses the pom.xml at path.
func ParsePOM(path string) (*POM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "couldn't read %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "couldn't parse %s", path)
	}
	p.Path = path
	return p, nil
}

// Parse parses a pom.xml document.
// Only direct project dependencies are listed; dependencyManagement and
// plugin dependencies are ignored.
func Parse(data []byte) (*POM, error) {
	src, err := newSource(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "couldn't decode document")
	}
	p := &POM{Properties: make(map[string]string), data: data, charmap: src.charmap}
	dec := xml.NewDecoder(bytes.NewReader(src.text))
	if src.charmap != nil {
		dec.CharsetReader = src.charsetReader
	}

	var (
		stack []string
		dep   *Dependency
		text  strings.Builder
	)
	for {
		off := src.original(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
			if under(stack, "project", "dependencies", "dependency") && len(stack) == 3 {
				dep = &Dependency{start: off}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			text.Reset()
			switch {
			case len(stack) == 3 && dep != nil && under(stack, "project", "dependencies", "dependency"):
				dep.end = src.original(dec.InputOffset())
				p.Dependencies = append(p.Dependencies, *dep)
				dep = nil
			case len(stack) == 4 && dep != nil:
				dep.set(stack[3], value)
			case len(stack) == 3 && under(stack, "project", "properties"):
				p.Properties[stack[2]] = value
			case len(stack) == 2 && under(stack, "project"):
				p.set(stack[1], value)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if p.ArtifactID == "" && len(p.Dependencies) == 0 && len(p.Properties) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "document has no <project> content")
	}
	return p, nil
}

func under(stack []string, path ...string) bool {
	if len(stack) < len(path) {
		return false
	}
	for i, name := range path {
		if stack[i] != name {
			return false
		}
	}
	return true
}

func (d *Dependency) set(field, value string) {
	switch field {
	case "groupId":
		d.GroupID = value
	case "artifactId":
		d.ArtifactID = value
	case "version":
		d.Version = value
	case "scope":
		d.Scope = value
	case "optional":
		d.Optional = value
	}
}

func (p *POM) set(field, value string) {
	switch field {
	case "groupId":
		p.GroupID = value
	case "artifactId":
		p.ArtifactID = value
	case "version":
		p.Version = value
	}
}

// Find returns the first dependency with the given coordinates.
func (p *POM) Find(groupID, artifactID string) (Dependency, bool) {
	for _, d := range p.Dependencies {
		if d.GroupID == groupID && d.ArtifactID == artifactID {
			return d, true
		}
	}
	return Dependency{}, false
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate expands ${name} references using the POM's properties and
// project.version / project.groupId. Unknown references are left as is.
func (p *POM) Interpolate(s string) string {
	return propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		switch name {
		case "project.version", "pom.version", "version":
			if p.Version != "" {
				return p.Version
			}
		case "project.groupId", "pom.groupId":
			if p.GroupID != "" {
				return p.GroupID
			}
		}
		if v, ok := p.Properties[name]; ok {
			return v
		}
		return ref
	})
}

// Bytes returns the current document.
func (p *POM) Bytes() []byte { return p.data }

// WriteFile writes the current document back to Path.
func (p *POM) WriteFile() error {
	info, err := os.Stat(p.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "couldn't stat %s", p.Path)
	}
	if err := os.WriteFile(p.Path, p.data, info.Mode().Perm()); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "couldn't write %s", p.Path)
	}
	return nil
}
