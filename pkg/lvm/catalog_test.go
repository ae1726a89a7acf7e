package lvm

import (
	"context"
	"testing"

	"github.com/snapfriend/snapfriend/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns canned output per invocation and records argv.
type fakeRunner struct {
	calls  [][]string
	stdout string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, argv ...string) (string, error) {
	f.calls = append(f.calls, argv)
	return f.stdout, f.err
}

const lvsOutput = `{
	"report": [
		{
			"lv": [
				{"vg_name": "pool", "lv_name": "friend-recent", "lv_tags": "friend:cache:app,friend:snapshot"},
				{"vg_name": "pool", "lv_name": "base", "lv_tags": "friend:default"},
				{"vg_name": "pool", "lv_name": "scratch", "lv_tags": ""}
			]
		}
	]
}`

func TestCatalogParsesLvsReport(t *testing.T) {
	r := &fakeRunner{stdout: lvsOutput}
	catalog := NewLVMCatalog(r)

	volumes, err := catalog.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, volumes, 3)

	assert.Equal(t, "pool", volumes[0].Group)
	assert.Equal(t, "friend-recent", volumes[0].Name)
	assert.Equal(t, []string{"friend:cache:app", "friend:snapshot"}, volumes[0].Tags)

	// Untagged volumes must not grow a single empty tag
	assert.Nil(t, volumes[2].Tags)

	// Catalog order is lvs order (most recent first)
	assert.Equal(t, "friend-recent", volumes[0].Name)
	assert.Equal(t, "scratch", volumes[2].Name)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "lvs", r.calls[0][0])
	assert.Contains(t, r.calls[0], "-lv_time")
	assert.Contains(t, r.calls[0], "json")
}

func TestCatalogCommandFailure(t *testing.T) {
	r := &fakeRunner{err: &runner.ExitError{Argv: []string{"lvs"}, Code: 5, Stderr: "lvs: no volume groups found"}}
	catalog := NewLVMCatalog(r)

	_, err := catalog.Catalog(context.Background())
	require.Error(t, err)

	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Error(), "lvs failed")
}

func TestCatalogBadJSON(t *testing.T) {
	r := &fakeRunner{stdout: "this is not json"}
	catalog := NewLVMCatalog(r)

	_, err := catalog.Catalog(context.Background())
	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Error(), "parse")
}

func TestCatalogEmptyReport(t *testing.T) {
	r := &fakeRunner{stdout: `{"report": []}`}
	catalog := NewLVMCatalog(r)

	_, err := catalog.Catalog(context.Background())
	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
}

func TestFindByTag(t *testing.T) {
	catalog := []Volume{
		{Group: "pool", Name: "recent", Tags: []string{"other"}},
		{Group: "pool", Name: "base", Tags: []string{"friend:default", "other"}},
		{Group: "pool", Name: "older", Tags: []string{"friend:default"}},
	}

	v, ok := FindByTag(catalog, "friend:default")
	require.True(t, ok)
	assert.Equal(t, "base", v.Name) // most recent match wins

	_, ok = FindByTag(catalog, "missing")
	assert.False(t, ok)
}
