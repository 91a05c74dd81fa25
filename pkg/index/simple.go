package index

import (
	"context"
	"fmt"

	"github.com/carlmjohnson/requests"
	"github.com/go-logr/logr"

	"github.com/packfetch/pypi-mirror/pkg/requestutil"
)

const simpleV1JSON = "application/vnd.pypi.simple.v1+json"

type simpleIndex struct {
	Projects []struct {
		Name string `json:"name"`
	} `json:"projects"`
}

// ListProjects returns the name of every project the index knows about.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("listing projects", "index", c.baseURL)

	var idx simpleIndex
	err := requests.URL(c.baseURL).
		Path("/simple/").
		Accept(simpleV1JSON).
		Client(c.client).
		Handle(requestutil.ToJSON(&idx)).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", classify(err))
	}

	names := make([]string, len(idx.Projects))
	for i, p := range idx.Projects {
		names[i] = p.Name
	}
	log.V(1).Info("listed projects", "count", len(names))
	return names, nil
}
