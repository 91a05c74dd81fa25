package record

// Record is the durable per-package artifact. Field order follows the
// serialized key order so that on-disk output is stable across runs.
type Record struct {
	LatestVersion string               `json:"latest_version"`
	Meta          Meta                 `json:"meta"`
	Versions      map[string]SourceRef `json:"versions"`
}

// SourceRef points at the single distributable file retained for a version.
type SourceRef struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

type Meta struct {
	Description string `json:"description,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	License     string `json:"license,omitempty"`
}
