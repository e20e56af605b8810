package emit

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/ekmixon/OSSEM/internal/corpus"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Template IDs.
const (
	TemplateReadme                = "readme"
	TemplateDataDictionary        = "data_dictionary"
	TemplateCIMEntity             = "cim_entity"
	TemplateDDMRelationships      = "ddm_relationships"
	TemplateAttackDataSource      = "attack_ds"
	TemplateEntity                = "entity"
	TemplateTable                 = "table"
	TemplateAttackEventMappings   = "attack_ds_event_mappings"
	TemplateRelationshipsToEvents = "ossem_relationships_to_events"
	templateSuffix                = ".md.tmpl"
)

// Renderer renders templates by ID. A template found in the override
// directory replaces the embedded one of the same ID.
type Renderer struct {
	fs          afero.Fs
	overrideDir string
	funcMap     template.FuncMap
	cache       map[string]*template.Template
	mu          sync.RWMutex
}

// NewRenderer creates a renderer. overrideDir may be empty.
func NewRenderer(fs afero.Fs, overrideDir string) *Renderer {
	return &Renderer{
		fs:          fs,
		overrideDir: overrideDir,
		funcMap:     defaultFuncMap(),
		cache:       make(map[string]*template.Template),
	}
}

// Render executes the template registered under id with data.
func (r *Renderer) Render(id string, data any) ([]byte, error) {
	tmpl, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, "failed to render template '%s'", id)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) lookup(id string) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	source, origin, err := r.source(id)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(id).Funcs(r.funcMap).Parse(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template '%s' from %s", id, origin)
	}

	r.mu.Lock()
	r.cache[id] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) source(id string) ([]byte, string, error) {
	name := id + templateSuffix

	if r.overrideDir != "" {
		path := filepath.Join(r.overrideDir, name)
		if ok, _ := afero.Exists(r.fs, path); ok {
			data, err := afero.ReadFile(r.fs, path)
			if err != nil {
				return nil, "", errors.Wrapf(err, "failed to read template file '%s'", path)
			}
			return data, path, nil
		}
	}

	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, "", errors.WithHint(
			errors.Newf("unknown template '%s'", id),
			"templates are named <id>"+templateSuffix)
	}
	return data, "embedded templates", nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":         strings.ToUpper,
		"lower":         strings.ToLower,
		"title":         Title,
		"trim":          strings.TrimSpace,
		"replace":       strings.ReplaceAll,
		"flatten":       corpus.FlattenText,
		"firstSentence": corpus.FirstSentence,
		"cell":          Cell,
		"join":          Join,
		"str":           Str,
		"dict":          Dict,
		"default":       Default,
	}
}

// Title capitalizes the first letter of each word and lowers the rest.
func Title(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// Str formats any template value, rendering nil as the empty string.
func Str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Cell makes a value safe inside a Markdown table cell.
func Cell(v any) string {
	s := corpus.FlattenText(Str(v))
	return strings.ReplaceAll(s, "|", `\|`)
}

// Join joins the elements of a list value with sep. A scalar is returned as
// is.
func Join(sep string, v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Str(v)
	}
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, Str(rv.Index(i).Interface()))
	}
	return strings.Join(parts, sep)
}

// Dict creates a map from alternating key-value pairs
// Usage in template: {{ template "partial" (dict "key1" val1 "key2" val2) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, errors.Newf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}

// Default returns defaultVal when val is nil, an empty string or an empty
// collection.
func Default(defaultVal, val any) any {
	switch v := val.(type) {
	case nil:
		return defaultVal
	case string:
		if v == "" {
			return defaultVal
		}
	case []any:
		if len(v) == 0 {
			return defaultVal
		}
	case map[string]any:
		if len(v) == 0 {
			return defaultVal
		}
	}
	return val
}
