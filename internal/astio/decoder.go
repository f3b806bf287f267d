package astio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
)

// ErrEmptyDocument is returned for documents without any YAML content.
var ErrEmptyDocument = errors.New("empty AST document")

// Options configures decoding.
type Options struct {
	// Reporter receives structural problems of the document; decoding
	// continues past them and skips the offending node.
	Reporter diag.Reporter
}

// Decode parses the AST document held by file and appends it to builder as a
// new AST file. YAML syntax errors are returned; structural problems are
// reported as diagnostics.
func Decode(file *source.File, builder *ast.Builder, opts Options) (ast.FileID, error) {
	if file == nil {
		return ast.NoFileID, errors.New("astio: nil file")
	}
	var root yaml.Node
	if err := yaml.Unmarshal(file.Content, &root); err != nil {
		return ast.NoFileID, fmt.Errorf("astio: decode %s: %w", file.Path, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return ast.NoFileID, fmt.Errorf("astio: %s: %w", file.Path, ErrEmptyDocument)
	}
	d := &decoder{
		file:     file,
		builder:  builder,
		reporter: opts.Reporter,
		spans:    make(map[*yaml.Node]source.Span),
	}
	return d.library(deref(root.Content[0])), nil
}

// Load reads path into the file set and decodes it.
func Load(fs *source.FileSet, path string, builder *ast.Builder, opts Options) (source.FileID, ast.FileID, error) {
	fileID, err := fs.Load(path)
	if err != nil {
		return 0, ast.NoFileID, fmt.Errorf("astio: load %s: %w", path, err)
	}
	astFile, err := Decode(fs.Get(fileID), builder, opts)
	return fileID, astFile, err
}

// DecodeVirtual registers content as a virtual file (stdin, tests) and
// decodes it.
func DecodeVirtual(fs *source.FileSet, name string, content []byte, builder *ast.Builder, opts Options) (source.FileID, ast.FileID, error) {
	fileID := fs.AddVirtual(name, content)
	astFile, err := Decode(fs.Get(fileID), builder, opts)
	return fileID, astFile, err
}

type decoder struct {
	file     *source.File
	builder  *ast.Builder
	reporter diag.Reporter
	spans    map[*yaml.Node]source.Span
}

func (d *decoder) errorf(code diag.Code, n *yaml.Node, format string, args ...any) {
	diag.ReportError(d.reporter, code, d.span(n), fmt.Sprintf(format, args...)).Emit()
}

func (d *decoder) warnf(code diag.Code, n *yaml.Node, format string, args ...any) {
	diag.ReportWarning(d.reporter, code, d.span(n), fmt.Sprintf(format, args...)).Emit()
}

// fields is a decoded YAML mapping with its keys in document order.
type fields struct {
	node  *yaml.Node
	keys  map[string]*yaml.Node
	vals  map[string]*yaml.Node
	order []string
}

func (f fields) get(key string) *yaml.Node { return deref(f.vals[key]) }

func (f fields) has(key string) bool {
	_, ok := f.vals[key]
	return ok
}

func (d *decoder) mapping(n *yaml.Node, what string) (fields, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		d.errorf(diag.SynMalformedDoc, n, "%s must be a mapping", what)
		return fields{}, false
	}
	f := fields{
		node: n,
		keys: make(map[string]*yaml.Node, len(n.Content)/2),
		vals: make(map[string]*yaml.Node, len(n.Content)/2),
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if _, dup := f.vals[key.Value]; dup {
			d.errorf(diag.SynMalformedDoc, key, "duplicate key '%s' in %s", key.Value, what)
			continue
		}
		f.keys[key.Value] = key
		f.vals[key.Value] = val
		f.order = append(f.order, key.Value)
	}
	return f, true
}

// only warns about keys outside allowed.
func (d *decoder) only(f fields, what string, allowed ...string) {
	for _, key := range f.order {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			d.warnf(diag.SynUnknownNode, f.keys[key], "unknown key '%s' in %s", key, what)
		}
	}
}

func (d *decoder) sequence(n *yaml.Node, what string) []*yaml.Node {
	n = deref(n)
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.errorf(diag.SynMalformedDoc, n, "%s must be a sequence", what)
		return nil
	}
	return n.Content
}

// name decodes an identifier scalar.
func (d *decoder) name(n *yaml.Node, what string) (source.StringID, source.Span, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Value == "" {
		d.errorf(diag.SynMissingName, n, "%s requires a name", what)
		return source.NoStringID, source.Span{}, false
	}
	if !isIdentifier(n.Value) {
		d.errorf(diag.SynMalformedDoc, n, "'%s' is not a valid identifier", n.Value)
		return source.NoStringID, source.Span{}, false
	}
	return d.builder.StringsInterner.Intern(n.Value), d.span(n), true
}

func (d *decoder) flag(f fields, key string) bool {
	n := f.get(key)
	if n == nil {
		return false
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		d.errorf(diag.SynMalformedDoc, n, "'%s' must be a boolean", key)
		return false
	}
	return v
}

func (d *decoder) modifier(f fields) ast.VarModifier {
	n := f.get("modifier")
	if n == nil {
		return ast.VarPlain
	}
	switch strings.TrimSpace(n.Value) {
	case "", "var":
		return ast.VarPlain
	case "final":
		return ast.VarFinal
	case "const":
		return ast.VarConst
	default:
		d.errorf(diag.SynMalformedDoc, n, "unknown modifier '%s' (want var, final or const)", n.Value)
		return ast.VarPlain
	}
}

func (d *decoder) library(n *yaml.Node) ast.FileID {
	name := strings.TrimSuffix(filepath.Base(d.file.Path), filepath.Ext(d.file.Path))
	fileID := d.builder.NewFile(d.fileSpan(), name)
	f, ok := d.mapping(n, "library document")
	if !ok {
		return fileID
	}
	d.only(f, "library document", "library", "declarations")
	if lib := f.get("library"); lib != nil && lib.Value != "" {
		if file := d.builder.Files.Get(fileID); file != nil {
			file.Name = lib.Value
		}
	}
	for _, decl := range d.sequence(f.get("declarations"), "declarations") {
		if item := d.item(decl); item.IsValid() {
			d.builder.PushItem(fileID, item)
		}
	}
	return fileID
}
