package record

import (
	"errors"
	"strings"

	"github.com/gosimple/unidecode"

	"github.com/packfetch/pypi-mirror/pkg/index"
)

// ErrNoReleases is returned when a package has an empty releases map.
var ErrNoReleases = errors.New("package has no releases")

// sourceExtensions is the priority order used to pick a version's
// distributable file. Earlier extensions always win, regardless of
// where the file sits in the upstream listing.
var sourceExtensions = []string{
	".tar.gz",
	".tar.bz2",
	".tar",
	".zip",
	".whl",
}

// the upstream index reports missing metadata as this literal
const unknownSentinel = "UNKNOWN"

// Name returns the package's canonical name, transliterated to ASCII
// so it is safe to use as a path component.
func Name(d *index.Descriptor) string {
	return unidecode.Unidecode(d.Info.Name)
}

// Extract derives the durable record from a raw descriptor. It is pure:
// no I/O, and the same descriptor always yields the same record.
func Extract(d *index.Descriptor) (*Record, error) {
	if len(d.Releases) == 0 {
		return nil, ErrNoReleases
	}

	rec := &Record{
		LatestVersion: d.Info.Version,
		Meta:          extractMeta(d.Info),
		Versions:      map[string]SourceRef{},
	}
	for version, files := range d.Releases {
		ref, ok := selectSource(files)
		if !ok {
			// no distributable source, drop the version entirely
			continue
		}
		rec.Versions[version] = ref
	}
	return rec, nil
}

// selectSource walks the extension priority list and, within one
// extension, the files in their upstream listing order. The first
// filename match wins.
func selectSource(files []index.ReleaseFile) (SourceRef, bool) {
	for _, ext := range sourceExtensions {
		for _, f := range files {
			if strings.HasSuffix(f.Filename, ext) {
				return SourceRef{URL: f.URL, SHA256: f.Digests.SHA256}, true
			}
		}
	}
	return SourceRef{}, false
}

func extractMeta(info index.Info) Meta {
	var m Meta
	if v, ok := metaField(info.Summary); ok {
		m.Description = strings.TrimSuffix(v, ".")
	}
	if v, ok := metaField(info.License); ok {
		m.License = v
	}
	if v, ok := metaField(info.HomePage); ok {
		m.Homepage = v
	}
	return m
}

// metaField filters absent and sentinel values and transliterates the
// rest to ASCII.
func metaField(s string) (string, bool) {
	if s == "" || s == unknownSentinel {
		return "", false
	}
	return unidecode.Unidecode(s), true
}
