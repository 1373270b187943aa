package distribution

// Artifact is one resolved library.
type Artifact struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
	Path       string `json:"path"`       // Binary path in the repository
	Descriptor string `json:"descriptor"` // POM path in the repository
}

// Coordinate returns "groupId:artifactId:version".
func (a Artifact) Coordinate() string {
	return a.GroupID + ":" + a.ArtifactID + ":" + a.Version
}

// Result is the outcome of a resolution.
type Result struct {
	Version    string     `json:"version"`
	Artifacts  []Artifact `json:"artifacts"`  // Sorted by artifact id
	Downloaded bool       `json:"downloaded"` // Whether any network I/O happened
}

// IDs returns the resolved artifact ids in sorted order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Artifacts))
	for i, a := range r.Artifacts {
		ids[i] = a.ArtifactID
	}
	return ids
}

// Paths returns the resolved binary paths, in the same order as IDs.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Artifacts))
	for i, a := range r.Artifacts {
		paths[i] = a.Path
	}
	return paths
}

// result builds a Result for ids, sorting and deduplicating them.
func (e *Engine) result(version string, ids []string, downloaded bool) *Result {
	ids = uniq(ids)
	res := &Result{Version: version, Downloaded: downloaded, Artifacts: make([]Artifact, 0, len(ids))}
	for _, id := range ids {
		res.Artifacts = append(res.Artifacts, Artifact{
			GroupID:    e.layout.GroupID,
			ArtifactID: id,
			Version:    version,
			Path:       e.paths.BinaryPath(id, version),
			Descriptor: e.paths.DescriptorPath(id, version),
		})
	}
	return res
}
