package manifest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/klauspost/readahead"

	"github.com/ardnew/lutgen/gen"
	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/pkg"
)

// Manifest is a set of tables generated into one Go file.
type Manifest struct {
	Package string   `yaml:"package" json:"package" toml:"package" hcl:"package,optional"`
	Output  string   `yaml:"output"  json:"output"  toml:"output"  hcl:"output,optional"`
	Imports []string `yaml:"imports" json:"imports" toml:"imports" hcl:"imports,optional"`
	Tables  []Table  `yaml:"tables"  json:"tables"  toml:"tables"  hcl:"table,block"`

	// Source is the path the manifest was loaded from, if any.
	Source string `yaml:"-" json:"-" toml:"-"`
}

// Table is one table entry of a manifest.
type Table struct {
	Name string `yaml:"name" json:"name" toml:"name" hcl:"name,label"`
	Spec string `yaml:"spec" json:"spec" toml:"spec" hcl:"spec"`
	Mode string `yaml:"mode" json:"mode" toml:"mode" hcl:"mode,optional"`
	Doc  string `yaml:"doc"  json:"doc"  toml:"doc"  hcl:"doc,optional"`
}

// Load reads and decodes the manifest at path. The format is chosen by the
// file extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}
	defer f.Close()

	m, err := decode(f, format, path)
	if err != nil {
		return nil, err
	}

	m.Source = path

	return m, nil
}

// Decode reads a manifest in the given format from r.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	return decode(r, format, "manifest"+format.Ext())
}

func decode(r io.Reader, format Format, name string) (*Manifest, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	var m Manifest

	switch format {
	case FormatYAML, FormatJSON:
		err = yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField())

	case FormatTOML:
		var md toml.MetaData

		md, err = toml.Decode(string(data), &m)
		if err == nil {
			if keys := md.Undecoded(); len(keys) > 0 {
				err = errors.New("unknown key " + keys[0].String())
			}
		}

	case FormatHCL:
		file, diags := hclparse.NewParser().ParseHCL(data, name)
		if diags.HasErrors() {
			return nil, pkg.ErrManifest.Wrap(diags)
		}

		if diags = gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
			err = diags
		}

	default:
		return nil, pkg.ErrManifestFormat.Wrapf("%s", format)
	}

	if err != nil {
		return nil, pkg.ErrManifest.Wrap(err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Tables))

	for i, t := range m.Tables {
		switch {
		case t.Name == "":
			return pkg.ErrManifestEntry.Wrapf("table %d: missing name", i)
		case strings.TrimSpace(t.Spec) == "":
			return pkg.ErrManifestEntry.Wrapf("table %s: missing spec", t.Name)
		case seen[t.Name]:
			return pkg.ErrManifestEntry.Wrapf("table %s: declared more than once", t.Name)
		}

		if _, err := gen.ParseMode(t.Mode); err != nil {
			return pkg.ErrManifestEntry.Wrapf("table %s", t.Name).Wrap(err)
		}

		seen[t.Name] = true
	}

	return nil
}

// OutputPath returns the path of the generated file. A relative output is
// resolved against the manifest's directory; an empty one defaults to the
// manifest's base name with a "_lut.go" suffix.
func (m *Manifest) OutputPath() string {
	dir := "."
	base := "lut"

	if m.Source != "" {
		dir = filepath.Dir(m.Source)
		base = strings.TrimSuffix(filepath.Base(m.Source), filepath.Ext(m.Source))
	}

	switch {
	case m.Output == "":
		return filepath.Join(dir, base+"_lut.go")
	case filepath.IsAbs(m.Output):
		return m.Output
	default:
		return filepath.Join(dir, m.Output)
	}
}

// Units parses the spec of every table and returns the generator units in
// manifest order.
func (m *Manifest) Units(ctx context.Context, opts ...lang.Option) ([]gen.Unit, error) {
	units := make([]gen.Unit, 0, len(m.Tables))

	for _, t := range m.Tables {
		spec, err := lang.ParseCached(ctx, t.Spec, opts...)
		if err != nil {
			return nil, &TableError{Table: t.Name, Source: t.Spec, Err: err}
		}

		mode, err := gen.ParseMode(t.Mode)
		if err != nil {
			return nil, &TableError{Table: t.Name, Source: t.Spec, Err: err}
		}

		units = append(units, gen.Unit{
			Name: t.Name,
			Spec: spec,
			Mode: mode,
			Doc:  t.Doc,
		})
	}

	return units, nil
}

// TableError reports a failure to parse one table of a manifest.
type TableError struct {
	Err    error
	Table  string
	Source string // Spec text of the table
}

func (e *TableError) Error() string {
	return "table " + e.Table + ": " + e.Err.Error()
}

func (e *TableError) Unwrap() error { return e.Err }
