package domain

// Artifact is the value passed between pipeline steps: a file plus its
// declared content type and accumulated metadata. An Artifact is never
// mutated after construction; a step that wants to change one builds a new
// Artifact with merged metadata.
type Artifact struct {
	Path string
	Mime string
	Meta map[string]interface{}
}

func NewArtifact(path string, mime string, meta map[string]interface{}) Artifact {
	if mime == "" {
		mime = "application/octet-stream"
	}
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return Artifact{
		Path: path,
		Mime: mime,
		Meta: meta,
	}
}

// IsZero reports whether the artifact carries no information at all. A step
// returning a zero artifact without an error is a defect.
func (a Artifact) IsZero() bool {
	return a.Path == "" && a.Mime == "" && len(a.Meta) == 0
}

// MergeMeta copies every entry of from into a fresh map seeded with into.
// Later steps merge into prior metadata; they never replace it wholesale.
func MergeMeta(into map[string]interface{}, from map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(into)+len(from))
	for k, v := range into {
		merged[k] = v
	}
	for k, v := range from {
		merged[k] = v
	}
	return merged
}
