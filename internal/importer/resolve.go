package importer

import (
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/importer/modcache"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/token"
)

// FileSource abstracts reading a display's source, so tests can resolve
// imports against an in-memory map instead of the filesystem.
type FileSource interface {
	ReadFile(path string) ([]byte, error)
}

// OSFileSource reads from the real filesystem.
type OSFileSource struct{}

func (OSFileSource) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Resolver discovers and amalgamates a module's transitive `#import`
// closure. SearchPaths and SystemPaths mirror the CLI's `-I`/`-isystem`
// flags: an import is first tried relative to the importing file's own
// directory, then against each SearchPaths entry, then each SystemPaths
// entry.
type Resolver struct {
	Source      FileSource
	SearchPaths []string
	SystemPaths []string

	// Cache, if set, lets Resolve skip re-discovering the import closure
	// when every file in a previous resolution is unchanged on disk. A
	// cache hit still re-lexes and re-parses: only the DFS and its
	// filesystem probing are skipped.
	Cache *modcache.Cache
}

// NewResolver builds a Resolver over the real filesystem.
func NewResolver() *Resolver { return &Resolver{Source: OSFileSource{}} }

// Resolve discovers rootPath's transitive import closure, concatenates
// every file's token stream in dependency order (imports before the files
// that import them), and parses the result as one ast.Module. Unresolved
// imports and import cycles are recorded as diagnostics and skipped rather
// than treated as fatal, matching the parser's error-recoverable posture;
// a fatal error is returned only if rootPath itself can't be read.
func (r *Resolver) Resolve(rootPath string) (*ast.Module, *diag.Log, error) {
	log := diag.NewLog()

	rootAbs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, log, err
	}
	rootSrc, err := r.Source.ReadFile(rootAbs)
	if err != nil {
		return nil, log, err
	}

	var order []string
	content := map[string][]byte{rootAbs: rootSrc}

	if r.Cache != nil {
		if cached, ok, cacheErr := r.Cache.Lookup(rootAbs); cacheErr == nil && ok {
			order = cached
		}
	}
	if order == nil {
		d := &discoverer{
			resolver: r,
			log:      log,
			content:  content,
			visited:  map[string]bool{},
			onStack:  map[string]bool{},
		}
		d.visit(rootAbs, filepath.Dir(rootAbs))
		order = d.order
		content = d.content
		if r.Cache != nil && !log.HasErrors() {
			r.Cache.Store(rootAbs, order, time.Now().UnixNano())
		}
	}

	pool := token.NewPool()
	displays := &token.Displays{}
	var all []token.Token

	for i, path := range order {
		src := content[path]
		if src == nil {
			src, err = r.Source.ReadFile(path)
			if err != nil {
				log.Add(diag.New(diag.ErrUnresolvedImport, token.InvalidDisplayPosition, "cached import %s no longer readable: %v", path, err))
				continue
			}
		}
		did := displays.Register(path)
		l := lexer.New(pool, did, src, lexer.DefaultConfig)
		toks := lexer.All(l)
		if i != len(order)-1 && len(toks) > 0 {
			toks = toks[:len(toks)-1] // drop this file's EOF; only the last file's EOF terminates the parse
		}
		all = append(all, toks...)
	}
	if len(all) == 0 || all[len(all)-1].Kind != token.EOF {
		all = append(all, token.Token{Kind: token.EOF})
	}

	mod, parseLog := parser.Parse(pool, all, rootPath)
	for _, e := range parseLog.Errors() {
		log.Add(e)
	}
	return mod, log, nil
}

// discoverer performs the DFS that builds d.order: a dependency-ordered,
// cycle-free, de-duplicated list of canonical file paths to amalgamate.
type discoverer struct {
	resolver *Resolver
	log      *diag.Log
	content  map[string][]byte
	visited  map[string]bool
	onStack  map[string]bool
	order    []string
}

func (d *discoverer) visit(canon, dir string) {
	if d.onStack[canon] {
		d.log.Add(diag.New(diag.ErrImportCycle, token.InvalidDisplayPosition, "import cycle detected at %s", canon))
		return
	}
	if d.visited[canon] {
		return
	}
	d.onStack[canon] = true

	src := d.content[canon]
	for _, imp := range scanImportPaths(src) {
		childCanon, childSrc, err := d.resolver.resolvePath(imp, dir)
		if err != nil {
			d.log.Add(diag.New(diag.ErrUnresolvedImport, token.InvalidDisplayPosition, "cannot resolve import %q from %s", imp, canon))
			continue
		}
		d.content[childCanon] = childSrc
		d.visit(childCanon, filepath.Dir(childCanon))
	}

	d.onStack[canon] = false
	d.visited[canon] = true
	d.order = append(d.order, canon)
}

// resolvePath tries importPath relative to fromDir, then each SearchPaths
// entry, then each SystemPaths entry, returning the first candidate that
// reads successfully.
func (r *Resolver) resolvePath(importPath, fromDir string) (canon string, content []byte, err error) {
	candidates := []string{filepath.Join(fromDir, importPath)}
	for _, sp := range r.SearchPaths {
		candidates = append(candidates, filepath.Join(sp, importPath))
	}
	for _, sp := range r.SystemPaths {
		candidates = append(candidates, filepath.Join(sp, importPath))
	}

	var lastErr error
	for _, c := range candidates {
		c = filepath.Clean(c)
		data, readErr := r.Source.ReadFile(c)
		if readErr == nil {
			return c, data, nil
		}
		lastErr = readErr
	}
	return "", nil, lastErr
}

// scanImportPaths finds every `#import "path".` directive in a raw token
// stream without a full parse: the importer needs just the dependency
// edges before it has decided the final, amalgamated token stream to hand
// the parser.
func scanImportPaths(src []byte) []string {
	pool := token.NewPool() // throwaway pool; spellings are read back immediately
	l := lexer.New(pool, 0, src, lexer.DefaultConfig)
	toks := lexer.All(l)

	var paths []string
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Kind == token.KwImport && toks[i+1].Kind == token.StringLiteral {
			paths = append(paths, pool.String(toks[i+1].Spelling))
		}
	}
	return paths
}
