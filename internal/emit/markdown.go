package emit

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/ekmixon/OSSEM/internal/corpus"
)

// Page keys added to index records before rendering.
const (
	KeySubDataSets = "sub_data_sets"
	KeyDataSetType = "data_set_type"
)

// pageTemplates maps each collection to its data record template.
var pageTemplates = map[corpus.Collection]string{
	corpus.DataDictionaries:       TemplateDataDictionary,
	corpus.CommonInformationModel: TemplateCIMEntity,
	corpus.DetectionDataModel:     TemplateDDMRelationships,
	corpus.AttackDataSources:      TemplateAttackDataSource,
}

// emitOrder is the order in which collections are written.
var emitOrder = []corpus.Collection{
	corpus.DataDictionaries,
	corpus.CommonInformationModel,
	corpus.DetectionDataModel,
	corpus.AttackDataSources,
}

// MarkdownEmitter plans the Markdown pages of a documentation corpus.
type MarkdownEmitter struct {
	Fs       afero.Fs
	Renderer *Renderer
}

// NewMarkdownEmitter creates an emitter writing through fs.
func NewMarkdownEmitter(fs afero.Fs, renderer *Renderer) *MarkdownEmitter {
	return &MarkdownEmitter{Fs: fs, Renderer: renderer}
}

// Plan renders every record of c into a write operation below root. For
// each collection the data pages come before the index pages.
func (e *MarkdownEmitter) Plan(c *corpus.Corpus, root string) ([]Operation, error) {
	var ops []Operation

	for _, collection := range emitOrder {
		for _, rec := range c.Records(collection) {
			op, err := e.dataPage(rec, root)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		for _, rec := range c.Indexes(collection) {
			op, err := e.indexPage(c, rec, root)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (e *MarkdownEmitter) dataPage(rec *corpus.Record, root string) (Operation, error) {
	fields, err := rec.Fields()
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", rec.SourcePath)
	}
	fields[KeySubDataSets] = []corpus.SubDataSet{}

	content, err := e.Renderer.Render(pageTemplates[rec.Collection], fields)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s", rec.SourcePath)
	}
	return NewWriteFileOp(e.Fs, OutputPath(root, rec, rec.FileName+".md"), content), nil
}

func (e *MarkdownEmitter) indexPage(c *corpus.Corpus, rec *corpus.Record, root string) (Operation, error) {
	fields, err := rec.Fields()
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", rec.SourcePath)
	}

	listing, err := c.Listing(rec)
	if err != nil {
		return nil, err
	}
	fields[KeySubDataSets] = listing.SubDataSets
	if listing.DataSetType != "" {
		fields[KeyDataSetType] = listing.DataSetType
	}

	content, err := e.Renderer.Render(TemplateReadme, fields)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s", rec.SourcePath)
	}
	return NewWriteFileOp(e.Fs, OutputPath(root, rec, "README.md"), content), nil
}

// OutputPath places a file for rec below root, mirroring the source layout
// from the collection marker down.
func OutputPath(root string, rec *corpus.Record, name string) string {
	return filepath.Join(root, rec.Context(), filepath.FromSlash(rec.FilePath), name)
}
