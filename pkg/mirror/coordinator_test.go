package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packfetch/pypi-mirror/pkg/index"
	"github.com/packfetch/pypi-mirror/pkg/sharded"
)

type fakeDiscovery struct {
	names   []string
	listErr error
	changes []index.Change
	feedErr error
}

func (f *fakeDiscovery) ListProjects(context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeDiscovery) ChangedSince(context.Context, int64) ([]index.Change, error) {
	return f.changes, f.feedErr
}

type recordingSink struct {
	commits int
}

func (s *recordingSink) Commit(context.Context, string) error {
	s.commits++
	return nil
}

func newTestCoordinator(t *testing.T, ts string, discovery *fakeDiscovery, sink Sink) (*Coordinator, string) {
	t.Helper()
	root := t.TempDir()
	writer, err := sharded.NewWriter(root, 1)
	require.NoError(t, err)
	batch := NewBatch(index.NewClient(ts, 2, 0), writer, 0)
	return NewCoordinator(discovery, discovery, batch, sink, root), root
}

func TestCoordinator_Update(t *testing.T) {
	ts := descriptorServer(t, map[string]string{
		"foo": `{
			"info": {"name": "foo", "version": "1.0"},
			"releases": {
				"1.0": [{"filename": "foo-1.0.tar.gz", "url": "https://files.example.org/foo-1.0.tar.gz", "digests": {"sha256": "abc"}}]
			}
		}`,
	})
	defer ts.Close()

	t.Run("advances the cursor to the last change", func(t *testing.T) {
		discovery := &fakeDiscovery{
			changes: []index.Change{
				{Name: "foo", Version: "1.0", Timestamp: 2001, Action: "new release"},
				{Name: "foo", Version: "1.0", Timestamp: 2002, Action: "add file"},
			},
		}
		sink := &recordingSink{}
		coord, root := newTestCoordinator(t, ts.URL, discovery, sink)
		require.NoError(t, SaveCursor(root, 2000))

		summary, err := coord.Update(testContext(t))
		require.NoError(t, err)

		// duplicate names collapse to one fetch
		assert.EqualValues(t, 1, summary.Written)
		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.EqualValues(t, 2002, v)
		assert.EqualValues(t, 1, sink.commits)
	})
	t.Run("cursor survives a failed change feed", func(t *testing.T) {
		discovery := &fakeDiscovery{feedErr: errors.New("upstream unavailable")}
		coord, root := newTestCoordinator(t, ts.URL, discovery, &recordingSink{})
		require.NoError(t, SaveCursor(root, 2000))

		_, err := coord.Update(testContext(t))
		assert.Error(t, err)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.EqualValues(t, 2000, v)
	})
	t.Run("skipped packages still advance the cursor", func(t *testing.T) {
		discovery := &fakeDiscovery{
			changes: []index.Change{
				{Name: "gone", Version: "1.0", Timestamp: 3000, Action: "new release"},
			},
		}
		coord, root := newTestCoordinator(t, ts.URL, discovery, &recordingSink{})
		require.NoError(t, SaveCursor(root, 2000))

		summary, err := coord.Update(testContext(t))
		require.NoError(t, err)
		assert.EqualValues(t, 1, summary.Skipped)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.EqualValues(t, 3000, v)
	})
	t.Run("empty feed leaves everything alone", func(t *testing.T) {
		discovery := &fakeDiscovery{}
		sink := &recordingSink{}
		coord, root := newTestCoordinator(t, ts.URL, discovery, sink)
		require.NoError(t, SaveCursor(root, 2000))

		summary, err := coord.Update(testContext(t))
		require.NoError(t, err)
		assert.Zero(t, summary.Written)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.EqualValues(t, 2000, v)
		assert.Zero(t, sink.commits)
	})
}

func TestCoordinator_Mirror(t *testing.T) {
	ts := descriptorServer(t, map[string]string{
		"foo": `{
			"info": {"name": "foo", "version": "1.0"},
			"releases": {
				"1.0": [{"filename": "foo-1.0.tar.gz", "url": "https://files.example.org/foo-1.0.tar.gz", "digests": {"sha256": "abc"}}]
			}
		}`,
	})
	defer ts.Close()

	t.Run("full pass writes the cursor", func(t *testing.T) {
		discovery := &fakeDiscovery{names: []string{"foo"}}
		sink := &recordingSink{}
		coord, root := newTestCoordinator(t, ts.URL, discovery, sink)

		summary, err := coord.Mirror(testContext(t))
		require.NoError(t, err)
		assert.EqualValues(t, 1, summary.Written)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.Positive(t, v)
		assert.EqualValues(t, 1, sink.commits)
	})
	t.Run("listing failure leaves no cursor", func(t *testing.T) {
		discovery := &fakeDiscovery{listErr: errors.New("upstream unavailable")}
		coord, root := newTestCoordinator(t, ts.URL, discovery, &recordingSink{})

		_, err := coord.Mirror(testContext(t))
		assert.Error(t, err)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.Zero(t, v)
	})
	t.Run("update without a cursor falls back to a full mirror", func(t *testing.T) {
		discovery := &fakeDiscovery{names: []string{"foo"}}
		coord, root := newTestCoordinator(t, ts.URL, discovery, &recordingSink{})

		summary, err := coord.Update(testContext(t))
		require.NoError(t, err)
		assert.EqualValues(t, 1, summary.Written)

		v, err := LoadCursor(root)
		require.NoError(t, err)
		assert.Positive(t, v)
	})
}

func TestHashSink_Commit(t *testing.T) {
	root := t.TempDir()
	writer, err := sharded.NewWriter(root, 1)
	require.NoError(t, err)
	_, err = writer.Write(context.TODO(), "foo", map[string]string{"latest_version": "1.0"})
	require.NoError(t, err)

	assert.NoError(t, HashSink{}.Commit(testContext(t), root))
}
