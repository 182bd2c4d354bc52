package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/parser"
	"refu/internal/project"
	"refu/internal/source"
)

// moduleSource is the per-module state carried from discovery through
// lowering: the already-parsed tree (reused, never re-parsed) and the bag
// that accumulates every diagnostic the module produces across every
// pipeline stage.
type moduleSource struct {
	path string
	tree *ast.Tree
	bag  *diag.Bag
}

// discoverModules implements spec.md §2 stage 1 (dependency discovery):
// walk dir for every ".rf" source file, parse it once, and derive a
// project.ModuleMeta from its KindModule root's import children. The same
// parsed tree and diagnostic bag are reused by the analyzer later, so a
// module is parsed exactly once regardless of how many pipeline stages
// touch it.
func discoverModules(dir string, strs *source.Table) ([]project.ModuleMeta, map[string]*moduleSource, *source.FileSet, error) {
	fileSet := source.NewFileSet()
	sources := make(map[string]*moduleSource)
	var metas []project.ModuleMeta

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() || filepath.Ext(path) != ".rf" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		modPath := modulePathFromFile(rel)

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fileID := fileSet.Add(rel, string(content))
		f := fileSet.Get(fileID)

		bag := &diag.Bag{}
		tree, _ := parser.ParseFile(f, strs, diag.BagReporter{Bag: bag})
		sources[modPath] = &moduleSource{path: modPath, tree: tree, bag: bag}

		meta := project.ModuleMeta{Path: modPath, File: fileID}
		if root := tree.Node(tree.Root); root != nil {
			meta.Span = root.Span
			for _, childID := range root.Children {
				child := tree.Node(childID)
				if child == nil || child.Kind != ast.KindImport {
					continue
				}
				meta.Imports = append(meta.Imports, project.ImportMeta{
					Path:    strs.MustGet(child.Name),
					Span:    child.Span,
					Foreign: child.Bool,
				})
			}
		}
		metas = append(metas, meta)
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })
	return metas, sources, fileSet, nil
}

// modulePathFromFile turns a source-relative file path into a dotted module
// path ("utils/math.rf" -> "utils.math"), mirroring the teacher's
// path-is-the-module-name convention for a project with no package
// declarations of its own.
func modulePathFromFile(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(rel, "/", ".")
}

// injectStdlibDependency marks the manifest's configured root module (or,
// failing an exact match, the lexicographically first module, with a
// warning reported through r) as IsRoot and gives it an implicit,
// non-foreign import of manifest.StdlibPath — spec.md §2's "the root
// module implicitly depends on the standard library." The path comes from
// the manifest (refu.toml's stdlib_path key, defaulting to
// project.StdlibPath) rather than the package constant directly, so a
// project that configures a non-default stdlib_path actually gets it.
func injectStdlibDependency(metas []project.ModuleMeta, manifest project.Manifest, r diag.Reporter) []project.ModuleMeta {
	if len(metas) == 0 {
		return metas
	}
	rootIdx := -1
	for i, m := range metas {
		if m.Path == manifest.Root {
			rootIdx = i
			break
		}
	}
	if rootIdx == -1 {
		rootIdx = 0
		if r != nil {
			r.Report(diag.CodeMissingModule, diag.SevWarning, metas[0].Span,
				"no module matches the configured root \""+manifest.Root+"\"; defaulting to \""+metas[0].Path+"\"", nil)
		}
	}
	metas[rootIdx].IsRoot = true
	stdlibPath := manifest.StdlibPath
	if stdlibPath == "" {
		stdlibPath = project.StdlibPath
	}
	for _, imp := range metas[rootIdx].Imports {
		if imp.Path == stdlibPath {
			return metas
		}
	}
	metas[rootIdx].Imports = append(metas[rootIdx].Imports, project.ImportMeta{
		Path: stdlibPath, Span: metas[rootIdx].Span,
	})
	return metas
}
