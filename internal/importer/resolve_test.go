package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/diag"
)

// memFileSource resolves import paths against an in-memory map, keyed by
// the same path spelling the test writes in `#import "..."` directives.
type memFileSource map[string]string

func (m memFileSource) ReadFile(path string) ([]byte, error) {
	if src, ok := m[path]; ok {
		return []byte(src), nil
	}
	return nil, errors.New("no such file")
}

func TestResolveSingleFileWithNoImports(t *testing.T) {
	src := memFileSource{
		"/root.dl": `#message edge(u32 X, u32 Y).`,
	}
	r := &Resolver{Source: src}
	mod, log, err := r.Resolve("/root.dl")
	require.NoError(t, err)
	require.False(t, log.HasErrors())
	require.NotNil(t, mod.Lookup(mod.Pool.Intern("edge"), 2))
}

func TestResolveOrdersDependenciesBeforeDependents(t *testing.T) {
	src := memFileSource{
		"/base.dl": `#message base(u32 X).`,
		"/root.dl": `#import "/base.dl".
#query derived(u32 X).
derived(X) : base(X).`,
	}
	r := &Resolver{Source: src}
	mod, log, err := r.Resolve("/root.dl")
	require.NoError(t, err)
	require.False(t, log.HasErrors(), "unexpected errors: %v", log.Errors())
	require.NotNil(t, mod.Lookup(mod.Pool.Intern("base"), 1))
	require.NotNil(t, mod.Lookup(mod.Pool.Intern("derived"), 1))
}

func TestResolveReportsImportCycle(t *testing.T) {
	src := memFileSource{
		"/a.dl": `#import "/b.dl".`,
		"/b.dl": `#import "/a.dl".`,
	}
	r := &Resolver{Source: src}
	_, log, err := r.Resolve("/a.dl")
	require.NoError(t, err)
	require.True(t, log.HasErrors())
	found := false
	for _, e := range log.Errors() {
		if e.Code == diag.ErrImportCycle {
			found = true
		}
	}
	require.True(t, found)
}

func TestResolveReportsUnresolvedImport(t *testing.T) {
	src := memFileSource{
		"/root.dl": `#import "/missing.dl".`,
	}
	r := &Resolver{Source: src}
	_, log, err := r.Resolve("/root.dl")
	require.NoError(t, err)
	require.True(t, log.HasErrors())
	found := false
	for _, e := range log.Errors() {
		if e.Code == diag.ErrUnresolvedImport {
			found = true
		}
	}
	require.True(t, found)
}

func TestResolveFatalErrorWhenRootUnreadable(t *testing.T) {
	r := &Resolver{Source: memFileSource{}}
	_, _, err := r.Resolve("/nope.dl")
	require.Error(t, err)
}
