// Package driver orchestrates the four-stage pipeline of spec.md §2
// (dependency discovery, first pass, typecheck, finalize+lower) across every
// module of a project: it owns the project manifest, the module dependency
// graph, and drives one internal/analyzer plus one internal/rir build per
// module in topological order, lowering the modules of one batch
// concurrently once their dependencies have finished finalizing.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"refu/internal/analyzer"
	"refu/internal/diag"
	"refu/internal/project"
	"refu/internal/project/dag"
	"refu/internal/rir"
	"refu/internal/source"
	"refu/internal/types"
)

// ErrCyclic is returned when the module graph has a dependency cycle
// (spec.md §4.6: "a cycle is fatal").
var ErrCyclic = errors.New("driver: cyclic module dependency")

// Outcome names the terminal state of a Run. spec.md §9's open question over
// a duplicated SERC_SUCCESS_EXIT comparison is resolved here by giving the
// two "compiled clean" cases distinct names instead of one constant
// standing for both: SuccessExit is the ordinary one-shot CLI invocation,
// SuccessContinue is selected by Options.KeepAlive, for a caller that wants
// the process to keep running after a clean compile; the refu CLI never sets
// KeepAlive, with or without --progress.
type Outcome uint8

const (
	SuccessExit Outcome = iota
	SuccessContinue
	SemanticFailure
	DriverError
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case SuccessExit:
		return "success"
	case SuccessContinue:
		return "success (continuing)"
	case SemanticFailure:
		return "semantic failure"
	case DriverError:
		return "driver error"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ExitCode maps an Outcome onto spec.md §6's process exit codes: 0 on
// success, 1 on any semantic or syntax error, 2 on driver error.
func (o Outcome) ExitCode() int {
	switch o {
	case SuccessExit, SuccessContinue:
		return 0
	case SemanticFailure:
		return 1
	default:
		return 2
	}
}

// ModuleResult is one module's pipeline output. RIR is nil when a semantic
// error blocked lowering; a module with only syntax errors is still lowered
// from its partial tree.
type ModuleResult struct {
	Path string
	Bag  *diag.Bag
	RIR  *rir.Module
}

// Result is the outcome of one driver Run.
type Result struct {
	Outcome Outcome
	Modules []*ModuleResult
	Files   *source.FileSet
	Err     error
}

// Options configures a Run.
type Options struct {
	// Dir is the project root to discover modules under.
	Dir string
	// KeepAlive selects SuccessContinue over SuccessExit on a clean run,
	// for a caller that keeps driving a UI after compilation finishes.
	KeepAlive bool
	// OnModuleDone, if set, is called synchronously from the batch that
	// produced it every time one module finishes its pipeline (successfully
	// or not) — the hook behind the CLI's --progress view.
	OnModuleDone func(path string, res *ModuleResult)
	// OnModulesDiscovered, if set, is called once after dependency discovery
	// with the number of source modules the compilation will process — lets
	// a caller (the CLI's --progress view) render a modules-done/total
	// percentage instead of only an unbounded log of ✓/✗ lines.
	OnModulesDiscovered func(total int)
}

// Run discovers every module under opts.Dir, topologically orders them
// (project/dag's Kahn's-algorithm batches per spec.md §4.6), and drives
// each module's analyzer and RIR builder, lowering every module of one
// batch concurrently with errgroup once all of its dependencies have
// finished Finalize (spec.md §5's concurrency rule).
func Run(ctx context.Context, opts Options) *Result {
	manifest, err := project.LoadManifest(filepath.Join(opts.Dir, "refu.toml"))
	if err != nil {
		return &Result{Outcome: DriverError, Err: fmt.Errorf("driver: %w", err)}
	}

	strs := source.NewTable()
	metas, sources, fileSet, err := discoverModules(opts.Dir, strs)
	if err != nil {
		return &Result{Outcome: DriverError, Err: fmt.Errorf("driver: discovering modules: %w", err)}
	}

	if opts.OnModulesDiscovered != nil {
		opts.OnModulesDiscovered(len(sources))
	}

	topBag := &diag.Bag{}
	metas = injectStdlibDependency(metas, manifest, diag.BagReporter{Bag: topBag})

	stdlibPath := manifest.StdlibPath
	if stdlibPath == "" {
		stdlibPath = project.StdlibPath
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, metas, stdlibPath, diag.BagReporter{Bag: topBag})
	topo := dag.ToposortKahn(graph)
	if topo.Cyclic {
		return &Result{Outcome: DriverError, Files: fileSet, Err: ErrCyclic}
	}

	built := make(map[dag.ModuleID]*analyzer.Analyzer, len(slots))
	var results []*ModuleResult
	if len(topBag.Items()) > 0 {
		results = append(results, &ModuleResult{Path: "<project>", Bag: topBag})
	}

	stdID, haveStd := idx.NameToID[stdlibPath]
	if haveStd {
		built[stdID] = &analyzer.Analyzer{Types: types.NewSet()}
	}

	for _, batch := range topo.Batches {
		type batchOutput struct {
			id  dag.ModuleID
			an  *analyzer.Analyzer
			res *ModuleResult
		}
		outputs := make([]batchOutput, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, id := range batch {
			i, id := i, id
			slot := slots[id]
			if !slot.Present || id == stdID {
				continue
			}
			src, ok := sources[slot.Meta.Path]
			if !ok {
				continue
			}
			deps := make([]*analyzer.Analyzer, len(graph.DependsOn[id]))
			for j, depID := range graph.DependsOn[id] {
				deps[j] = built[depID]
			}
			g.Go(func() error {
				res, an, err := lowerModule(gctx, strs, src, deps)
				outputs[i] = batchOutput{id: id, an: an, res: res}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			if errors.Is(err, analyzer.ErrCancelled) || errors.Is(err, context.Canceled) {
				return &Result{Outcome: Cancelled, Modules: results, Files: fileSet, Err: err}
			}
			return &Result{Outcome: DriverError, Modules: results, Files: fileSet, Err: err}
		}
		for _, out := range outputs {
			if out.an == nil {
				continue
			}
			built[out.id] = out.an
			if out.res != nil {
				results = append(results, out.res)
				if opts.OnModuleDone != nil {
					opts.OnModuleDone(out.res.Path, out.res)
				}
			}
		}
	}

	outcome := SuccessExit
	if opts.KeepAlive {
		outcome = SuccessContinue
	}
	for _, res := range results {
		if res.Bag.HasErrors() {
			outcome = SemanticFailure
			break
		}
	}
	return &Result{Outcome: outcome, Modules: results, Files: fileSet}
}

// lowerModule runs one module's analyze+finalize+lower sequence. A semantic
// error (spec.md §4.8: "the RIR builder treats any pre-existing semantic
// error on a module as a hard stop") is not itself a driver error — it is
// reported through the module's own Bag and surfaces as Outcome
// SemanticFailure once every module has been processed.
func lowerModule(ctx context.Context, strs *source.Table, src *moduleSource, deps []*analyzer.Analyzer) (*ModuleResult, *analyzer.Analyzer, error) {
	an := analyzer.New(src.tree, strs, diag.BagReporter{Bag: src.bag})
	res := &ModuleResult{Path: src.path, Bag: src.bag}

	if err := an.Analyze(ctx); err != nil {
		switch {
		case errors.Is(err, analyzer.ErrCancelled):
			return nil, nil, err
		case errors.Is(err, analyzer.ErrSemantic):
			return res, an, nil
		default:
			return nil, nil, fmt.Errorf("driver: module %q: %w", src.path, err)
		}
	}

	depSets := make([]*types.Set, len(deps))
	for i, d := range deps {
		if d != nil {
			depSets[i] = d.Types
		}
	}
	if _, err := an.Finalize(ctx, depSets); err != nil {
		if errors.Is(err, analyzer.ErrCancelled) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("driver: module %q: finalize: %w", src.path, err)
	}

	mod, err := rir.Build(an, strs)
	if err != nil {
		if errors.Is(err, rir.ErrBlocked) {
			return res, an, nil
		}
		return nil, nil, fmt.Errorf("driver: module %q: rir: %w", src.path, err)
	}
	res.RIR = mod
	return res, an, nil
}

// Flush renders every collected diagnostic (in module-encounter order) to w
// using internal/diag's source-annotated, severity-colored formatter —
// spec.md §6's "the driver flushes [diagnostics] to stdout as formatted
// source-annotated text."
func Flush(w io.Writer, r *Result) {
	if r.Files == nil {
		return
	}
	for _, mod := range r.Modules {
		for _, d := range mod.Bag.Items() {
			diag.Format(w, r.Files, d)
		}
	}
}
