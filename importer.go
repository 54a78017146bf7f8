package srdr

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/catalog"
	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/htmldoc"
	"github.com/jensjap/SRDR-ImportProject2/internal/issuelog"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/resolver"
	"github.com/jensjap/SRDR-ImportProject2/sections"
	"github.com/jensjap/SRDR-ImportProject2/store"
	"github.com/jensjap/SRDR-ImportProject2/tables"
)

// Importer provides a fluent interface for importing one report.
// Each configuration method returns a new Importer instance, making it
// safe for concurrent use and allowing method chaining.
type Importer struct {
	// Source
	filename string
	source   *source

	// Configuration
	options ImportOptions
}

// source reads a caller's reader once so every Importer sharing it parses
// the same bytes.
type source struct {
	r    io.Reader
	once sync.Once
	data []byte
	err  error
}

func (s *source) read() ([]byte, error) {
	s.once.Do(func() {
		s.data, s.err = io.ReadAll(s.r)
		if s.err != nil {
			s.err = eris.Wrap(s.err, "reading report")
		}
	})
	return s.data, s.err
}

// clone creates a copy of the Importer with a copy of its options.
func (i *Importer) clone() *Importer {
	return &Importer{
		filename: i.filename,
		source:   i.source,
		options:  i.options.clone(),
	}
}

// File returns an Importer for filename with the same configuration.
func (i *Importer) File(filename string) *Importer {
	n := i.clone()
	n.filename = filename
	n.source = nil
	return n
}

// ProjectID sets the project new studies belong to.
func (i *Importer) ProjectID(id int64) *Importer {
	n := i.clone()
	n.options.projectID = id
	return n
}

// CreatorID sets the user recorded as the creator of new studies.
func (i *Importer) CreatorID(id int64) *Importer {
	n := i.clone()
	n.options.creatorID = id
	return n
}

// Catalog sets the field catalog. A nil catalog restores the default.
func (i *Importer) Catalog(c *catalog.Catalog) *Importer {
	n := i.clone()
	if c == nil {
		c = catalog.Default()
	}
	n.options.catalog = c
	return n
}

// Logger sets the logger.
func (i *Importer) Logger(l *zap.Logger) *Importer {
	n := i.clone()
	if l == nil {
		l = zap.NewNop()
	}
	n.options.logger = l
	return n
}

// FatalLog sets the file that receives one line per failed report.
func (i *Importer) FatalLog(path string) *Importer {
	n := i.clone()
	n.options.fatalLog = path
	return n
}

// MatchingLog sets the file that receives outcome titles that matched no
// existing outcome.
func (i *Importer) MatchingLog(path string) *Importer {
	n := i.clone()
	n.options.matchingLog = path
	return n
}

// RunID sets the identifier logged with every message of a run.
func (i *Importer) RunID(id string) *Importer {
	n := i.clone()
	n.options.runID = id
	return n
}

func (i *Importer) log() *zap.Logger {
	return i.options.logger.With(
		zap.String("file", i.filename),
		zap.String("run_id", i.options.runID))
}

// document parses the report.
func (i *Importer) document() (*htmldoc.Document, error) {
	if i.source != nil {
		data, err := i.source.read()
		if err != nil {
			return nil, err
		}
		return htmldoc.OpenReader(bytes.NewReader(data))
	}
	if i.filename == "" {
		return nil, eris.New("no filename specified")
	}
	return htmldoc.Open(i.filename)
}

// Analyze locates the report's regions and classifies its results tables
// without writing anything.
func (i *Importer) Analyze() (*Analysis, error) {
	doc, err := i.document()
	if err != nil {
		return nil, &DocumentError{File: i.filename, Err: err}
	}
	regions := htmldoc.Locate(doc)

	a := &Analysis{
		File:       i.filename,
		Title:      doc.Title(),
		Identifier: fieldmap.PublicationID.In(regions.Grid(htmldoc.Eligibility)),
	}
	for _, name := range htmldoc.RegionNames() {
		a.Regions = append(a.Regions, RegionInfo{
			Name:  name,
			Found: regions.Found(name),
			Rows:  regions.Grid(name).RowCount(),
		})
	}
	buckets := tables.Classify(doc)
	for _, b := range tables.AllBuckets() {
		info := BucketInfo{Bucket: b, Tables: len(buckets[b])}
		for _, g := range buckets[b] {
			info.Rows += g.RowCount()
		}
		a.Buckets = append(a.Buckets, info)
	}
	return a, nil
}

// Import writes the report into st inside one transaction. Any failure
// rolls the transaction back, is appended to the fatal log and is returned
// as a *DocumentError.
func (i *Importer) Import(ctx context.Context, st store.Store) (*Result, error) {
	log := i.log()

	res, err := i.importDocument(ctx, st, log)
	if err == nil {
		log.Info("report imported",
			zap.Int64("study_id", res.StudyID),
			zap.String("identifier", res.Identifier),
			zap.Int("arms", res.Arms),
			zap.Int("outcomes", res.Outcomes),
			zap.Int("data_entries", res.Tables.Entries))
		return res, nil
	}

	de := &DocumentError{File: i.filename, Err: err}
	log.Error("report failed", zap.Error(err))
	if i.options.fatalLog != "" {
		if lerr := issuelog.New(i.options.fatalLog).Append(i.filename, err.Error()); lerr != nil {
			log.Warn("writing fatal log", zap.Error(lerr))
		}
	}
	return nil, de
}

// importDocument writes the report and, once the transaction has
// committed, the outcome titles it could not match.
func (i *Importer) importDocument(ctx context.Context, st store.Store, log *zap.Logger) (*Result, error) {
	doc, err := i.document()
	if err != nil {
		return nil, err
	}
	regions := htmldoc.Locate(doc)
	if !regions.Found(htmldoc.Eligibility) {
		return nil, eris.Wrap(ErrMissingIdentifier, "eligibility table not found")
	}
	eligibility := regions.Grid(htmldoc.Eligibility)
	identifier := fieldmap.PublicationID.In(eligibility)
	if identifier == "" {
		return nil, eris.Wrap(ErrMissingIdentifier, "eligibility identifier is blank")
	}
	buckets := tables.Classify(doc)

	tx, err := st.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "beginning transaction")
	}
	var unmatched *issuelog.Pending
	if i.options.matchingLog != "" {
		unmatched = issuelog.New(i.options.matchingLog).For(i.filename).Pending()
	}
	res := &Result{File: i.filename, Identifier: identifier}
	if err := i.write(ctx, tx, regions, buckets, res, unmatched, log); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			log.Warn("rolling back", zap.Error(rerr))
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "committing transaction")
	}
	if unmatched != nil {
		if err := unmatched.Flush(); err != nil {
			log.Warn("writing matching log", zap.Error(err))
		}
	}
	return res, nil
}

// write creates every record for the report in the order the sections
// depend on each other: quality arms precede intervention arms, and
// outcomes precede the results tables that resolve against them.
func (i *Importer) write(ctx context.Context, tx store.Tx, regions htmldoc.Regions, buckets tables.Buckets, res *Result, unmatched *issuelog.Pending, log *zap.Logger) error {
	cat := i.options.catalog

	study := &model.Study{ProjectID: i.options.projectID, CreatorID: i.options.creatorID}
	if err := tx.CreateStudy(ctx, study); err != nil {
		return eris.Wrap(err, "creating study")
	}
	res.StudyID = study.ID
	log = log.With(zap.Int64("study_id", study.ID))

	sw := sections.New(tx, cat, study.ID, sections.WithLogger(log))
	pub, err := sw.Publication(ctx, res.Identifier)
	if err != nil {
		return err
	}
	res.PublicationID = pub.ID

	if res.QualityInterventional, err = sw.QualityInterventional(ctx, regions.Grid(htmldoc.QualityInterventional)); err != nil {
		return err
	}
	if res.QualityCohort, err = sw.QualityCohort(ctx, regions.Grid(htmldoc.QualityCohort)); err != nil {
		return err
	}
	if err := sw.KeyQuestions(ctx); err != nil {
		return err
	}

	eligibility := regions.Grid(htmldoc.Eligibility)
	if err := sw.TrialTitle(ctx, eligibility, pub.ID); err != nil {
		return err
	}
	if err := sw.DesignDetails(ctx, eligibility, regions.Grid(htmldoc.Background)); err != nil {
		return err
	}

	if _, err := sw.Arms(ctx, regions.Grid(htmldoc.Intervention)); err != nil {
		return err
	}
	if err := sw.Baseline(ctx, regions.Grid(htmldoc.Population)); err != nil {
		return err
	}

	list := regions.Grid(htmldoc.OutcomesList)
	if res.Outcomes, err = sw.Outcomes(ctx, list); err != nil {
		return err
	}
	if err := sw.OutcomeDetails(ctx, list, regions.Grid(htmldoc.Comments)); err != nil {
		return err
	}
	if err := sw.Confounders(ctx, regions.Grid(htmldoc.Confounders)); err != nil {
		return err
	}

	ropts := []resolver.Option{
		resolver.WithExtractionForm(cat.Forms.Main),
		resolver.WithLogger(log),
	}
	if unmatched != nil {
		ropts = append(ropts, resolver.WithRecorder(unmatched))
	}
	tw := tables.NewWriter(tx, resolver.New(tx, study.ID, ropts...), study.ID,
		tables.WithExtractionForm(cat.Forms.Main),
		tables.WithLogger(log))
	for _, b := range tables.AllBuckets() {
		stats, err := tw.WriteBucket(ctx, b, buckets[b])
		res.Tables.Add(stats)
		if err != nil {
			return err
		}
	}

	// Results rows may have created arms of their own.
	all, err := tx.ListArms(ctx, study.ID)
	if err != nil {
		return eris.Wrap(err, "listing arms")
	}
	res.Arms = len(all)
	return nil
}

// Batch imports every file with this Importer's configuration. A failing
// file is recorded and the run moves on to the next one.
func (i *Importer) Batch(ctx context.Context, st store.Store, files []string) *Report {
	report := &Report{RunID: i.options.runID}
	if off := i.options.catalog.Disabled(); len(off) > 0 {
		i.options.logger.Warn("catalog sections disabled",
			zap.String("run_id", i.options.runID),
			zap.Strings("sections", off))
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			report.add(f, nil, &DocumentError{File: f, Err: err})
			continue
		}
		res, err := i.File(f).Import(ctx, st)
		report.add(f, res, err)
	}
	return report
}
