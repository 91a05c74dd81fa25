package index

// Descriptor is the raw per-package document returned by the index.
type Descriptor struct {
	Info     Info                     `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

type Info struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Summary  string `json:"summary"`
	License  string `json:"license"`
	HomePage string `json:"home_page"`
}

type ReleaseFile struct {
	Filename string  `json:"filename"`
	URL      string  `json:"url"`
	Digests  Digests `json:"digests"`
}

type Digests struct {
	SHA256 string `json:"sha256"`
}

// Change is a single entry from the index changelog.
type Change struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
	Action    string `json:"action"`
}
