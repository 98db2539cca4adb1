// Package manifest describes the editable fields of each content
// collection for the external editing tool. The field list is the
// validator's contract made declarative: every field the record
// validators accept appears here with the same required flag, and the
// author relation points at the author collection's slug. Verify keeps
// the two views from drifting apart.
package manifest

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"quill/internal/validate"
)

type Widget string

const (
	WidgetString   Widget = "string"
	WidgetText     Widget = "text"
	WidgetMarkdown Widget = "markdown"
	WidgetDateTime Widget = "datetime"
	WidgetImage    Widget = "image"
	WidgetBoolean  Widget = "boolean"
	WidgetRelation Widget = "relation"
	WidgetList     Widget = "list"
)

type Field struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label"`
	Widget   Widget `yaml:"widget"`
	Required bool   `yaml:"required"`

	// Relation fields only.
	Collection string `yaml:"collection,omitempty"`
	ValueField string `yaml:"value_field,omitempty"`
}

type Collection struct {
	Name   string  `yaml:"name"`
	Label  string  `yaml:"label"`
	Folder string  `yaml:"folder"`
	Fields []Field `yaml:"fields"`
}

type Manifest struct {
	Collections []Collection `yaml:"collections"`
}

const (
	CollectionPosts   = "blog"
	CollectionAuthors = "authors"

	// AuthorValueField is the author collection's id convention: the
	// record's storage slug.
	AuthorValueField = "slug"
)

// Build assembles the manifest for the given content folders.
func Build(postsFolder, authorsFolder string) Manifest {
	return Manifest{
		Collections: []Collection{
			{
				Name:   CollectionPosts,
				Label:  "Blog Posts",
				Folder: postsFolder,
				Fields: []Field{
					{Name: "title", Label: "Title", Widget: WidgetString, Required: true},
					{Name: "description", Label: "Description", Widget: WidgetText, Required: true},
					{Name: "category", Label: "Category", Widget: WidgetString, Required: true},
					{Name: "excerpt", Label: "Excerpt", Widget: WidgetText, Required: true},
					{Name: "pubDate", Label: "Publish Date", Widget: WidgetDateTime, Required: true},
					{Name: "updatedDate", Label: "Updated Date", Widget: WidgetDateTime},
					{Name: "heroImage", Label: "Hero Image", Widget: WidgetImage},
					{Name: "draft", Label: "Draft", Widget: WidgetBoolean},
					{
						Name: "author", Label: "Author", Widget: WidgetRelation,
						Collection: CollectionAuthors, ValueField: AuthorValueField,
					},
					{Name: "authors", Label: "Additional Authors", Widget: WidgetList},
				},
			},
			{
				Name:   CollectionAuthors,
				Label:  "Authors",
				Folder: authorsFolder,
				Fields: []Field{
					{Name: "name", Label: "Name", Widget: WidgetString, Required: true},
					{Name: "avatarImage", Label: "Avatar Image", Widget: WidgetImage},
					{Name: "avatarUrl", Label: "Avatar URL", Widget: WidgetString},
					{Name: "website", Label: "Website", Widget: WidgetString},
				},
			},
		},
	}
}

// Verify checks field parity against the record validators: same field
// names, same required flags, and the author relation carrying the slug
// value key. Any drift is a configuration bug, reported in full.
func (m Manifest) Verify() error {
	byName := make(map[string]Collection, len(m.Collections))
	for _, c := range m.Collections {
		byName[c.Name] = c
	}

	var errs []string
	check := func(name string, want []validate.FieldSpec) {
		c, ok := byName[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("collection %q missing from manifest", name))
			return
		}
		fields := make(map[string]Field, len(c.Fields))
		for _, f := range c.Fields {
			fields[f.Name] = f
		}
		for _, spec := range want {
			f, ok := fields[spec.Name]
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: field %q accepted by validator but missing from manifest", name, spec.Name))
				continue
			}
			if f.Required != spec.Required {
				errs = append(errs, fmt.Sprintf("%s: field %q required=%v in manifest, %v in validator", name, spec.Name, f.Required, spec.Required))
			}
			delete(fields, spec.Name)
		}
		var extra []string
		for n := range fields {
			extra = append(extra, n)
		}
		sort.Strings(extra)
		for _, n := range extra {
			errs = append(errs, fmt.Sprintf("%s: field %q in manifest but not accepted by validator", name, n))
		}
		if f, ok := pickRelation(c); ok {
			if f.Collection != CollectionAuthors || f.ValueField != AuthorValueField {
				errs = append(errs, fmt.Sprintf("%s: relation field %q must target %q by %q", name, f.Name, CollectionAuthors, AuthorValueField))
			}
		}
	}

	check(CollectionPosts, validate.PostFields())
	check(CollectionAuthors, validate.AuthorFields())

	if len(errs) > 0 {
		return fmt.Errorf("manifest drift:\n - %s", joinLines(errs))
	}
	return nil
}

func pickRelation(c Collection) (Field, bool) {
	for _, f := range c.Fields {
		if f.Widget == WidgetRelation {
			return f, true
		}
	}
	return Field{}, false
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n - "
		}
		out += l
	}
	return out
}

// WriteYAML serializes the manifest for the editing tool.
func (m Manifest) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
