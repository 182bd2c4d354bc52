package project

import "refu/internal/source"

// ModuleID indexes a module within a compilation's module graph.
type ModuleID uint32

// NoModuleID marks the absence of a module.
const NoModuleID ModuleID = 0

// ImportMeta records one import statement discovered in a module's AST
// root, before the module's body has been fully parsed or analyzed.
type ImportMeta struct {
	Path    string
	Span    source.Span
	Foreign bool // foreign imports (FFI) are not module dependencies
}

// ModuleMeta is the lightweight record produced by dependency discovery
// (pipeline stage 1): a module's declared name, its import list, and
// whether it is the root module (which implicitly depends on the standard
// library).
type ModuleMeta struct {
	Path    string
	Span    source.Span
	File    source.FileID
	Imports []ImportMeta
	IsRoot  bool
}

// StdlibPath is the synthetic module path injected as a dependency of the
// root module, per the dependency-discovery stage.
const StdlibPath = "std"
