package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"constlit/internal/ast"
	"constlit/internal/astio"
	"constlit/internal/constcheck"
	"constlit/internal/diag"
	"constlit/internal/observ"
	"constlit/internal/source"
	"constlit/internal/symbols"
	"constlit/internal/trace"
)

// Check validates every constant function literal of the given AST documents.
// Documents are processed in parallel; a broken document never stops the
// others. The returned error is reserved for cancellation: problems with the
// documents themselves become diagnostics.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	ctx, runSpan := trace.Start(ctx, trace.ScopeRun, "check", trace.A("files", strconv.Itoa(len(paths))))
	defer runSpan.End("")

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	result := &Result{
		FileSet: fileSet,
		Files:   make([]FileResult, len(paths)),
		Bag:     diag.NewBag(0),
		Timer:   timer,
	}
	if len(paths) == 0 {
		return result, nil
	}

	// Предзагружаем все файлы последовательно: FileID детерминированы
	loadIdx := timer.Begin("load")
	loadErrs := make([]error, len(paths))
	for i, path := range paths {
		result.Files[i] = FileResult{Path: path, Bag: diag.NewBag(0), ASTFile: ast.NoFileID}
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был путь
			loadErrs[i] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		result.Files[i].FileID = fileID
	}
	timer.End(loadIdx, "")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	strings := source.NewInterner()
	var done atomic.Int64
	total := len(paths)

	checkIdx := timer.Begin("check")
	// Результаты пишутся по уникальным индексам, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, total))
	for i := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := &result.Files[i]
			opts.progress(ProgressEvent{Path: fr.Path, Stage: ProgressStarted, Done: int(done.Load()), Total: total})

			stage := ProgressChecked
			if loadErrs[i] != nil {
				msg := fmt.Sprintf("cannot read %s: %v", fr.Path, loadErrs[i])
				fr.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fr.FileID}, msg))
				stage = ProgressFailed
			} else {
				phase := timer.Begin("file:" + fr.Path)
				err := checkFile(gctx, fileSet.Get(fr.FileID), strings, fr, &opts)
				timer.End(phase, "")
				if err != nil {
					return err
				}
				switch {
				case fr.Cached:
					stage = ProgressCached
				case fr.Failed():
					stage = ProgressFailed
				}
			}
			n := int(done.Add(1))
			opts.progress(ProgressEvent{
				Path:     fr.Path,
				Stage:    stage,
				Done:     n,
				Total:    total,
				Literals: len(fr.Literals),
				Invalid:  fr.InvalidLiterals(),
			})
			return nil
		})
	}
	err := g.Wait()
	timer.End(checkIdx, "")
	if err != nil {
		return result, err
	}

	for i := range result.Files {
		result.Bag.Merge(result.Files[i].Bag)
	}
	result.Bag.Sort()
	if opts.MaxDiagnostics > 0 {
		result.Bag.Truncate(opts.MaxDiagnostics)
	}
	runSpan.Set("diagnostics", strconv.Itoa(result.Bag.Len()))
	return result, nil
}

// checkFile fills fr for one loaded document, consulting the caches first.
// Only cancellation is returned as an error; fr is then incomplete.
func checkFile(ctx context.Context, file *source.File, strings *source.Interner, fr *FileResult, opts *Options) error {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "check_file", trace.A("path", fr.Path))
	defer func() {
		span.Set("cached", strconv.FormatBool(fr.Cached)).End(strconv.Itoa(fr.Bag.Len()))
	}()

	key := cacheKey(file.Hash, opts)
	if payload, ok := opts.Memo.Get(key); ok {
		trace.Mark(ctx, trace.ScopeFile, "cache_hit", "memo")
		payload.restore(fr)
		return nil
	}
	if opts.Cache != nil {
		var payload VerdictPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			log.Warnf("verdict cache: %s: %v", fr.Path, err)
		case hit && payload.ContentHash == Digest(file.Hash):
			trace.Mark(ctx, trace.ScopeFile, "cache_hit", "disk")
			payload.restore(fr)
			opts.Memo.Put(key, &payload)
			return nil
		}
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: fr.Bag})
	builder := ast.NewBuilder(ast.Hints{}, strings)
	astFile, err := astio.Decode(file, builder, astio.Options{Reporter: reporter})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, astio.ErrEmptyDocument) {
			msg = fmt.Sprintf("%s: empty AST document", fr.Path)
		}
		diag.ReportError(reporter, diag.IODecodeError, source.Span{File: file.ID}, msg).Emit()
		// синтаксически битый документ не кэшируем: ошибка дешевая
		return nil
	}
	fr.Builder = builder
	fr.ASTFile = astFile

	res := symbols.ResolveFile(builder, astFile, symbols.ResolveOptions{
		Prelude:  opts.Prelude,
		Reporter: reporter,
		Validate: opts.ValidateTables,
	})
	fr.Symbols = &res
	if n := reporter.Suppressed(); n > 0 {
		log.Debugf("%s: dropped %d repeated diagnostics of aliased nodes", fr.Path, n)
	}

	checker := constcheck.New(builder, &res, constcheck.Options{Policy: opts.Policy})
	fr.Checker = checker
	report, err := constcheck.CheckAll(ctx, checker, checker.Literals(), constcheck.CheckOptions{Jobs: opts.LiteralJobs})
	if err != nil {
		return fmt.Errorf("%s: %w", fr.Path, err)
	}
	fr.Verdicts = report.Verdicts
	fr.Bag.Merge(report.Bag)
	fr.Bag.Sort()
	for _, v := range report.Verdicts {
		fr.Literals = append(fr.Literals, LiteralSummary{Span: v.Span, Status: v.Status, Violations: len(v.Violations)})
	}

	groups, err := checker.HoistGroups(report.Verdicts)
	if err != nil {
		log.Warnf("hoist fingerprint: %s: %v", fr.Path, err)
	}
	for _, g := range groups {
		fr.Hoist = append(fr.Hoist, HoistSummary{Fingerprint: g.Fingerprint, Spans: g.Spans})
	}

	payload := filePayload(fr, Digest(file.Hash))
	opts.Memo.Put(key, payload)
	if err := opts.Cache.Put(key, payload); err != nil {
		log.Warnf("verdict cache: %s: %v", fr.Path, err)
	}
	return nil
}
