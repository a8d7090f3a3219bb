package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/viant/ktree/engine"
	"github.com/viant/ktree/index"
	"github.com/viant/ktree/ingest"
	"github.com/viant/ktree/internal/ktree"
	"github.com/viant/ktree/internal/observability"
	"github.com/viant/ktree/internal/output"
	"github.com/viant/ktree/vector"
)

// Report summarizes a successful build.
type Report struct {
	Bytes      int
	Lines      int
	Dimensions int
	Vectors    int
	Depth      int
	Written    int64
}

// ParseOrder converts the tree order argument; anything that is not an
// integer in [ktree.MinOrder, ktree.MaxOrder] is rejected.
func ParseOrder(arg string) (int, error) {
	order, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || order < ktree.MinOrder || order > ktree.MaxOrder {
		return 0, diagnose(ktree.ErrInvalidOrder, msgInvalidOrder)
	}
	return order, nil
}

// Build ingests in, builds a tree of the given order and writes it to out.
// Errors are *Diagnostic values; out is only created on success.
func (d *Driver) Build(ctx context.Context, in, orderArg, out string) (_ *Report, err error) {
	order, err := ParseOrder(orderArg)
	if err != nil {
		d.logger.ErrorContext(ctx, "invalid tree order", "order", orderArg)
		return nil, err
	}
	distance, err := d.cfg.Distance()
	if err != nil {
		return nil, err
	}
	logger := d.logger.WithFile(in)
	report := &Report{}

	ctx, root := d.startSpan(ctx, observability.StageBuild, attribute.Int("ktree.order", order))
	defer func() { observability.EndSpan(root, err) }()

	_, span := d.startSpan(ctx, observability.StageLoad, attribute.String("ktree.input", in))
	buf, err := ingest.Load(in)
	observability.EndSpan(span, err)
	logger.LogLoad(ctx, len(buf), err)
	if err != nil {
		return nil, diagnose(err, msgUnreadable, in)
	}
	report.Bytes = len(buf)

	_, span = d.startSpan(ctx, observability.StageSplit)
	lines := ingest.Split(buf)
	var dims int
	if len(lines) > 0 {
		dims = ingest.Dimensions(lines[0].Bytes(buf))
	}
	span.SetAttributes(attribute.Int("ktree.lines", len(lines)), attribute.Int("ktree.dimensions", dims))
	if len(lines) == 0 || dims == 0 {
		err = ingest.ErrEmptyCorpus
	}
	observability.EndSpan(span, err)
	if err != nil {
		logger.ErrorContext(ctx, "no vectors", "lines", len(lines))
		return nil, diagnose(err, msgMalformed, in, err)
	}
	logger.LogSplit(ctx, len(lines), dims)
	report.Lines, report.Dimensions = len(lines), dims

	alloc := ktree.NewAllocator(d.cfg.Build.ChunkFloats)
	factory := ktree.Factory(
		ktree.WithDistance(distance),
		ktree.WithSplitIterations(d.cfg.Build.SplitIterations),
	)
	builder, err := factory(alloc, order, dims)
	if err != nil {
		return nil, diagnose(err, msgInsertFailed, in, err)
	}

	_, span = d.startSpan(ctx, observability.StageParse)
	objects, err := ingest.ParseAll(buf, lines, func() (*ktree.Object, []float32) {
		obj := builder.NewObject(alloc)
		return obj, obj.Vector
	})
	observability.EndSpan(span, err)
	logger.LogParse(ctx, len(objects), alloc.Stats().FloatsUsed, err)
	if err != nil {
		return nil, diagnose(err, msgMalformed, in, err)
	}

	_, span = d.startSpan(ctx, observability.StageInsert, attribute.Int("ktree.order", order))
	err = insertAll(builder, alloc, objects)
	if err == nil {
		report.Vectors = len(objects)
		report.Depth = builder.Depth()
		span.SetAttributes(attribute.Int("ktree.depth", report.Depth))
	}
	observability.EndSpan(span, err)
	logger.LogInsert(ctx, order, len(objects), report.Depth, err)
	if err != nil {
		return nil, diagnose(err, msgInsertFailed, in, err)
	}

	compression := d.cfg.Compression()
	if ext := compression.Extension(); ext != "" && !strings.HasSuffix(out, ext) {
		logger.WarnContext(ctx, "output name does not carry the compression extension", "out", out, "compression", string(compression), "extension", ext)
	}
	_, span = d.startSpan(ctx, observability.StageSerialize, attribute.String("ktree.output", out))
	file, err := output.Create(out, compression)
	if err == nil {
		if _, err = builder.WriteTo(file); err != nil {
			_ = file.Abort()
		}
	}
	observability.EndSpan(span, err)
	if err != nil {
		logger.LogWrite(ctx, out, 0, err)
		return nil, diagnose(err, msgWriteFailed, out)
	}

	var stagedCatalog string
	if path := d.cfg.Build.Catalog; path != "" {
		_, span = d.startSpan(ctx, observability.StageCatalog, attribute.String("ktree.catalog", path))
		stagedCatalog, err = stageCatalog(ctx, path, objects, map[string]string{
			"source":     in,
			"tree":       out,
			"order":      strconv.Itoa(order),
			"dimensions": strconv.Itoa(dims),
			"vectors":    strconv.Itoa(len(objects)),
			"distance":   string(distance),
		})
		observability.EndSpan(span, err)
		if err != nil {
			_ = file.Abort()
			logger.ErrorContext(ctx, "catalog failed", "catalog", path, "error", err)
			return nil, diagnose(err, msgCatalogFailed, path)
		}
	}

	err = file.Commit()
	logger.LogWrite(ctx, file.Path(), file.Written(), err)
	if err != nil {
		if stagedCatalog != "" {
			_ = os.Remove(stagedCatalog)
		}
		return nil, diagnose(err, msgWriteFailed, out)
	}
	report.Written = file.Written()

	if stagedCatalog != "" {
		if err = os.Rename(stagedCatalog, d.cfg.Build.Catalog); err != nil {
			_ = os.Remove(stagedCatalog)
			logger.ErrorContext(ctx, "catalog failed", "catalog", d.cfg.Build.Catalog, "error", err)
			return nil, diagnose(err, msgCatalogFailed, d.cfg.Build.Catalog)
		}
	}
	return report, nil
}

// insertAll pushes objects into the index in file order.
func insertAll(builder index.Builder[*ktree.Allocator, *ktree.Object], alloc *ktree.Allocator, objects []*ktree.Object) error {
	for i, obj := range objects {
		if err := builder.PushBack(alloc, obj); err != nil {
			return fmt.Errorf("vector %d: %w", i+1, err)
		}
	}
	return nil
}

// stageCatalog writes the catalog into a fresh database next to path and
// returns its name. The caller renames it over path once the tree is saved,
// so an existing catalog is replaced whole or not at all.
func stageCatalog(ctx context.Context, path string, objects []*ktree.Object, meta map[string]string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if err = tmp.Close(); err == nil {
		err = fillCatalog(ctx, name, objects, meta)
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// fillCatalog stores every vector with its 1-based ordinal and the build
// attributes in the SQLite database at path.
func fillCatalog(ctx context.Context, path string, objects []*ktree.Object, meta map[string]string) (err error) {
	if err := engine.RegisterVectorFunctions(); err != nil {
		return err
	}
	db, err := engine.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		return err
	}
	records := make([]vector.Record, len(objects))
	for i, obj := range objects {
		records[i] = vector.Record{Ordinal: i + 1, Embedding: obj.Vector}
	}
	return store.Replace(ctx, records, meta)
}
