// Package catalog loads the read-only catalogs the application is built
// around: document templates, conversion tools, course assignments and blog
// posts. A Library is loaded once at startup, validated, and passed to the
// components that need it. It is never modified afterwards and all accessors
// return copies. Posts and assignments published by users go to a Board,
// which uses the same record types and search rules.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

//go:embed data/*.yaml
var embedded embed.FS

// Catalog file names inside the filesystem passed to Load.
const (
	TemplatesFile   = "templates.yaml"
	ToolsFile       = "tools.yaml"
	AssignmentsFile = "assignments.yaml"
	BlogsFile       = "blogs.yaml"
)

// Tool is one entry of the conversion and utility tools list.
type Tool struct {
	ID            string   `yaml:"id" json:"id" validate:"required"`
	Title         string   `yaml:"title" json:"title" validate:"required"`
	Description   string   `yaml:"description" json:"description"`
	Icon          string   `yaml:"icon" json:"icon,omitempty"`
	Category      string   `yaml:"category" json:"category" validate:"oneof=document image text utility design"`
	Premium       bool     `yaml:"premium,omitempty" json:"premium,omitempty"`
	InputFormats  []string `yaml:"input_formats" json:"inputFormats" validate:"min=1,dive,required"`
	OutputFormats []string `yaml:"output_formats" json:"outputFormats" validate:"min=1,dive,required"`
}

// CourseAssignment is a published assignment that can be previewed and
// exported through the assignment generator.
type CourseAssignment struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	CourseCode  string   `yaml:"course_code" json:"courseCode" validate:"required"`
	Semester    int      `yaml:"semester" json:"semester" validate:"min=1,max=12"`
	Subject     string   `yaml:"subject" json:"subject" validate:"required"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	WordCount   int      `yaml:"word_count" json:"wordCount" validate:"min=0"`
	UploadDate  string   `yaml:"upload_date" json:"uploadDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Uploader    string   `yaml:"uploader" json:"uploader,omitempty"`
	Downloads   int      `yaml:"downloads" json:"downloads" validate:"min=0"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Content     string   `yaml:"content" json:"content" validate:"required"`
}

// BlogPost is one article of the blog section.
type BlogPost struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Excerpt     string   `yaml:"excerpt" json:"excerpt"`
	Content     string   `yaml:"content" json:"content" validate:"required"`
	Author      string   `yaml:"author" json:"author" validate:"required"`
	PublishDate string   `yaml:"publish_date" json:"publishDate" validate:"datetime=2006-01-02"`
	ReadTime    string   `yaml:"read_time" json:"readTime"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Featured    bool     `yaml:"featured" json:"featured,omitempty"`
	Views       int      `yaml:"views" json:"views" validate:"min=0"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
}

type templatesFile struct {
	Templates []smartdocs.Template `yaml:"templates" validate:"unique=ID,dive"`
}

type toolsFile struct {
	Tools []Tool `yaml:"tools" validate:"unique=ID,dive"`
}

type assignmentsFile struct {
	Assignments []CourseAssignment `yaml:"assignments" validate:"unique=ID,dive"`
}

type blogsFile struct {
	Blogs []BlogPost `yaml:"blogs" validate:"unique=ID,dive"`
}

// Library holds every catalog.
type Library struct {
	templates   []smartdocs.Template
	tools       []Tool
	assignments []CourseAssignment
	blogs       []BlogPost
}

// Embedded loads the catalogs compiled into the binary.
func Embedded() (*Library, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Load(sub)
}

// Load reads and validates the four catalog files from fsys.
func Load(fsys fs.FS) (*Library, error) {
	var (
		tf templatesFile
		of toolsFile
		af assignmentsFile
		bf blogsFile
	)
	files := []struct {
		name string
		dst  any
	}{
		{TemplatesFile, &tf},
		{ToolsFile, &of},
		{AssignmentsFile, &af},
		{BlogsFile, &bf},
	}
	for _, f := range files {
		if err := decode(fsys, f.name, f.dst); err != nil {
			return nil, err
		}
	}
	for _, t := range tf.Templates {
		if err := t.Check(); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", TemplatesFile, err)
		}
	}
	for i := range af.Assignments {
		a := &af.Assignments[i]
		if a.WordCount == 0 {
			a.WordCount = len(strings.Fields(a.Content))
		}
	}
	return &Library{
		templates:   tf.Templates,
		tools:       of.Tools,
		assignments: af.Assignments,
		blogs:       bf.Blogs,
	}, nil
}

func decode(fsys fs.FS, name string, dst any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("catalog: reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("catalog: parsing %s: %w", name, err)
	}
	if err := smartdocs.Validator().Struct(dst); err != nil {
		return fmt.Errorf("catalog: validating %s: %w", name, err)
	}
	return nil
}

func cloneTemplate(t smartdocs.Template) smartdocs.Template {
	fields := make([]smartdocs.Field, len(t.Fields))
	for i, f := range t.Fields {
		f.Options = append([]string(nil), f.Options...)
		fields[i] = f
	}
	t.Fields = fields
	return t
}

// Templates returns every template in catalog order.
func (l *Library) Templates() []smartdocs.Template {
	out := make([]smartdocs.Template, len(l.templates))
	for i, t := range l.templates {
		out[i] = cloneTemplate(t)
	}
	return out
}

// Template looks up a template by id.
func (l *Library) Template(id string) (smartdocs.Template, error) {
	for _, t := range l.templates {
		if t.ID == id {
			return cloneTemplate(t), nil
		}
	}
	return smartdocs.Template{}, fmt.Errorf("catalog: %w: %q", smartdocs.ErrUnknownTemplate, id)
}

// Categories returns the template categories in order of first appearance.
func (l *Library) Categories() []string {
	var cats []string
	seen := map[string]bool{}
	for _, t := range l.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	return cats
}

// TemplatesByCategory returns the templates of one category. "All" or ""
// returns every template.
func (l *Library) TemplatesByCategory(category string) []smartdocs.Template {
	if category == "" || category == "All" {
		return l.Templates()
	}
	var out []smartdocs.Template
	for _, t := range l.templates {
		if strings.EqualFold(t.Category, category) {
			out = append(out, cloneTemplate(t))
		}
	}
	return out
}

// Tools returns every tool in catalog order.
func (l *Library) Tools() []Tool {
	out := make([]Tool, len(l.tools))
	for i, t := range l.tools {
		t.InputFormats = append([]string(nil), t.InputFormats...)
		t.OutputFormats = append([]string(nil), t.OutputFormats...)
		out[i] = t
	}
	return out
}

// Tool looks up a tool by id.
func (l *Library) Tool(id string) (Tool, bool) {
	for _, t := range l.Tools() {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Accepts reports whether format is one of the tool's output formats.
func (t Tool) Accepts(format string) bool {
	for _, f := range t.OutputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Reads reports whether a file with the given extension is a valid input
// for the tool. "txt" counts as "text" and "jpeg" as "jpg".
func (t Tool) Reads(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, f := range t.InputFormats {
		f = strings.ToLower(f)
		switch {
		case f == ext,
			f == "text" && ext == "txt",
			f == "jpg" && ext == "jpeg",
			f == "jpeg" && ext == "jpg":
			return true
		}
	}
	return false
}
