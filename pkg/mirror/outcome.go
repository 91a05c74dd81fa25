package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/packfetch/pypi-mirror/pkg/index"
	"github.com/packfetch/pypi-mirror/pkg/record"
)

// Reason explains why a package was skipped for this run.
type Reason string

const (
	ReasonNotFound    Reason = "not-found"
	ReasonTimeout     Reason = "timeout"
	ReasonTransport   Reason = "transport-error"
	ReasonMalformed   Reason = "malformed-response"
	ReasonNoReleases  Reason = "no-releases"
	ReasonWriteFailed Reason = "write-failed"
	ReasonCancelled   Reason = "cancelled"
)

// Summary tallies the outcome of one batch.
type Summary struct {
	Written int
	Skipped int
	Reasons map[Reason]int
}

func (s Summary) String() string {
	reasons := maps.Keys(s.Reasons)
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("written=%d skipped=%d", s.Written, s.Skipped))
	for _, r := range reasons {
		sb.WriteString(fmt.Sprintf(" %s=%d", r, s.Reasons[r]))
	}
	return sb.String()
}

// reasonFor maps a per-package failure onto its skip reason.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, index.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, index.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, index.ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, index.ErrTransport):
		return ReasonTransport
	case errors.Is(err, record.ErrNoReleases):
		return ReasonNoReleases
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	}
	return ReasonWriteFailed
}
