package views

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf-dev/bookshelf/internal/apitest"
	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/gate"
	"github.com/bookshelf-dev/bookshelf/internal/session"
	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

// fakePrompter replays scripted answers; running out of answers aborts
type fakePrompter struct {
	inputs   []string
	selects  []int
	confirms []bool
	labels   []string
}

func (f *fakePrompter) Input(label string, _ prompt.InputOptions) (string, error) {
	f.labels = append(f.labels, label)
	if len(f.inputs) == 0 {
		return "", prompt.ErrAborted
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakePrompter) Select(label string, _ []string) (int, error) {
	f.labels = append(f.labels, label)
	if len(f.selects) == 0 {
		return -1, prompt.ErrAborted
	}
	v := f.selects[0]
	f.selects = f.selects[1:]
	return v, nil
}

func (f *fakePrompter) Confirm(label string) (bool, error) {
	f.labels = append(f.labels, label)
	if len(f.confirms) == 0 {
		return false, prompt.ErrAborted
	}
	v := f.confirms[0]
	f.confirms = f.confirms[1:]
	return v, nil
}

type fixture struct {
	api     *apitest.Server
	client  *client.Client
	session *session.Store
	gate    *gate.Gate
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := apitest.NewServer(t)

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sess := session.NewStore(store, "")
	return &fixture{
		api:     api,
		client:  client.New(api.URL, zerolog.Nop()),
		session: sess,
		gate:    gate.New(sess, zerolog.Nop()),
		out:     &bytes.Buffer{},
	}
}

func (f *fixture) role(t *testing.T) session.Role {
	t.Helper()
	role, err := f.session.Role(context.Background())
	require.NoError(t, err)
	return role
}
