package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/catalog"
	"github.com/Nikhilpandey8/smartdocshub/codegen"
	"github.com/Nikhilpandey8/smartdocshub/convert"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
	"github.com/Nikhilpandey8/smartdocshub/form"
	"github.com/Nikhilpandey8/smartdocshub/markup"
	"github.com/Nikhilpandey8/smartdocshub/session"
)

// Backend holds the services the tools call into.
type Backend struct {
	Catalog *catalog.Library
	// Board holds user published posts and uploads. Nil disables those tools.
	Board     *catalog.Board
	Sessions  *session.Manager
	Converter *convert.Converter
	Codes     *codegen.Generator
	// OutputDir, when set, receives every artifact instead of inline base64.
	OutputDir string
}

// RegisterDefaultTools adds all built-in tools to the server.
func RegisterDefaultTools(s *Server, b *Backend) {
	s.AddTool(b.listTemplatesTool())
	s.AddTool(b.getTemplateTool())
	s.AddTool(b.openSessionTool())
	s.AddTool(b.setFieldTool())
	s.AddTool(b.getFormTool())
	s.AddTool(b.generateDocumentTool())
	s.AddTool(b.closeSessionTool())
	s.AddTool(b.generateAssignmentTool())
	s.AddTool(b.searchAssignmentsTool())
	s.AddTool(b.searchBlogsTool())
	s.AddTool(b.publishBlogTool())
	s.AddTool(b.readBlogTool())
	s.AddTool(b.deleteBlogTool())
	s.AddTool(b.uploadAssignmentTool())
	s.AddTool(previewMarkupTool())
	s.AddTool(b.generateCodeTool())
	s.AddTool(b.convertFileTool())
	s.AddTool(b.listToolsTool())
}

func schema(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func getString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func requireString(args map[string]interface{}, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing '%s' argument", key)
	}
	return s, nil
}

func getInt(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// decodeArg re-decodes a JSON object argument into dst.
func decodeArg(v interface{}, dst interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func jsonResult(v interface{}) (ToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

type artifactInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Format      string   `json:"format"`
	MIMEType    string   `json:"mimeType"`
	Bytes       int      `json:"bytes"`
	Pages       int      `json:"pages,omitempty"`
	GeneratedAt string   `json:"generatedAt"`
	Path        string   `json:"path,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// artifactResult saves art to outputPath or the backend output directory
// when either is set, and otherwise returns it inline as base64.
func (b *Backend) artifactResult(art *smartdocs.Artifact, args map[string]interface{}) (ToolResult, error) {
	info := artifactInfo{
		ID:          art.ID.String(),
		Name:        art.Name,
		Format:      string(art.Format),
		MIMEType:    art.MIMEType,
		Bytes:       art.Size(),
		Pages:       art.Pages,
		GeneratedAt: art.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, w := range art.Warnings {
		info.Warnings = append(info.Warnings, w.Error())
	}

	switch outputPath := getString(args, "outputPath"); {
	case outputPath != "":
		if err := os.WriteFile(outputPath, art.Data, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		info.Path = outputPath
	case b.OutputDir != "":
		path, err := art.Save(b.OutputDir)
		if err != nil {
			return ToolResult{}, err
		}
		info.Path = path
	}

	res, err := jsonResult(info)
	if err != nil || info.Path != "" {
		return res, err
	}
	res.Content = append(res.Content, ContentBlock{
		Type:     "resource",
		MIMEType: art.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(art.Data),
	})
	return res, nil
}

type templateSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Premium     bool   `json:"premium,omitempty"`
	Fields      int    `json:"fields"`
}

func (b *Backend) listTemplatesTool() Tool {
	return Tool{
		Name:        "list_templates",
		Description: "List document templates, optionally filtered by category (Academic, Professional, Business, Legal, Marketing).",
		InputSchema: schema(nil, map[string]interface{}{
			"category": prop("string", "Category name, or 'All'"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			tpls := b.Catalog.TemplatesByCategory(getString(args, "category"))
			out := make([]templateSummary, len(tpls))
			for i, t := range tpls {
				out[i] = templateSummary{t.ID, t.Title, t.Description, t.Category, t.Premium, len(t.Fields)}
			}
			return jsonResult(map[string]interface{}{
				"categories": b.Catalog.Categories(),
				"templates":  out,
			})
		},
	}
}

func (b *Backend) getTemplateTool() Tool {
	return Tool{
		Name:        "get_template",
		Description: "Get a template definition with all of its fields.",
		InputSchema: schema([]string{"id"}, map[string]interface{}{
			"id": prop("string", "Template id, e.g. 'invoice'"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return ToolResult{}, err
			}
			tpl, err := b.Catalog.Template(id)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(tpl)
		},
	}
}

type formState struct {
	SessionID string      `json:"sessionId"`
	Template  string      `json:"template"`
	Fields    []form.View `json:"fields"`
	Missing   []string    `json:"missing,omitempty"`
}

func stateOf(s *session.Session) formState {
	st := formState{
		SessionID: s.ID.String(),
		Template:  s.Template().ID,
		Fields:    s.Views(),
	}
	var verr *smartdocs.ValidationError
	if errors.As(s.Validate(), &verr) {
		for _, m := range verr.Missing {
			st.Missing = append(st.Missing, m.ID)
		}
	}
	return st
}

// fieldInput builds a form input from either a text value or a file given
// inline (name, mimeType, base64 data) or by path.
func fieldInput(args map[string]interface{}) (form.Input, error) {
	if path := getString(args, "path"); path != "" {
		h, err := smartdocs.NewPathFile(path)
		if err != nil {
			return form.Input{}, fmt.Errorf("opening file: %w", err)
		}
		return form.FileInput(h), nil
	}
	if f, ok := args["file"].(map[string]interface{}); ok {
		data, err := base64.StdEncoding.DecodeString(getString(f, "data"))
		if err != nil {
			return form.Input{}, fmt.Errorf("decoding file data: %w", err)
		}
		return form.FileInput(smartdocs.NewMemFile(getString(f, "name"), getString(f, "mimeType"), data)), nil
	}
	switch v := args["value"].(type) {
	case string:
		return form.TextInput(v), nil
	case float64:
		return form.TextInput(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case nil:
		return form.TextInput(""), nil
	default:
		return form.Input{}, fmt.Errorf("unsupported value %v", v)
	}
}

func (b *Backend) openSessionTool() Tool {
	return Tool{
		Name:        "open_session",
		Description: "Open an editing session for a template. Optional initial values are applied through the same field rules as set_field.",
		InputSchema: schema([]string{"templateId"}, map[string]interface{}{
			"templateId": prop("string", "Template id"),
			"values":     prop("object", "Map of field id to text value"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			id, err := requireString(args, "templateId")
			if err != nil {
				return ToolResult{}, err
			}
			tpl, err := b.Catalog.Template(id)
			if err != nil {
				return ToolResult{}, err
			}
			values, _ := args["values"].(map[string]interface{})
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			s := b.Sessions.Open(tpl, smartdocs.DocumentData{})
			for _, k := range keys {
				in, err := fieldInput(map[string]interface{}{"value": values[k]})
				if err == nil {
					_, err = s.Set(k, in)
				}
				if err != nil {
					s.Close()
					return ToolResult{}, fmt.Errorf("field %s: %w", k, err)
				}
			}
			return jsonResult(stateOf(s))
		},
	}
}

func (b *Backend) session(args map[string]interface{}) (*session.Session, error) {
	id, err := requireString(args, "sessionId")
	if err != nil {
		return nil, err
	}
	return b.Sessions.Get(id)
}

func (b *Backend) setFieldTool() Tool {
	return Tool{
		Name:        "set_field",
		Description: "Set one field of an open session. Text fields take 'value'; file fields take 'path' or 'file' {name, mimeType, data (base64)}.",
		InputSchema: schema([]string{"sessionId", "fieldId"}, map[string]interface{}{
			"sessionId": prop("string", "Session id from open_session"),
			"fieldId":   prop("string", "Field id"),
			"value":     prop("string", "Text value"),
			"path":      prop("string", "Path of a file to attach"),
			"file":      prop("object", "Inline file: name, mimeType, data (base64)"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			s, err := b.session(args)
			if err != nil {
				return ToolResult{}, err
			}
			fieldID, err := requireString(args, "fieldId")
			if err != nil {
				return ToolResult{}, err
			}
			in, err := fieldInput(args)
			if err != nil {
				return ToolResult{}, err
			}
			view, err := s.Set(fieldID, in)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(view)
		},
	}
}

func (b *Backend) getFormTool() Tool {
	return Tool{
		Name:        "get_form",
		Description: "Get the current form of a session: every field with its value, plus the required fields still missing.",
		InputSchema: schema([]string{"sessionId"}, map[string]interface{}{
			"sessionId": prop("string", "Session id"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			s, err := b.session(args)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(stateOf(s))
		},
	}
}

func formatArg(args map[string]interface{}) (smartdocs.Format, error) {
	f := getString(args, "format")
	if f == "" {
		return smartdocs.FormatPDF, nil
	}
	return smartdocs.ParseFormat(f)
}

func (b *Backend) generateDocumentTool() Tool {
	return Tool{
		Name:        "generate_document",
		Description: "Generate the document of a session as pdf, docx or txt. Fails with the list of missing required fields when the form is incomplete.",
		InputSchema: schema([]string{"sessionId"}, map[string]interface{}{
			"sessionId":  prop("string", "Session id"),
			"format":     prop("string", "pdf (default), docx or txt"),
			"outputPath": prop("string", "Optional file path to save the document. If omitted, returns base64."),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			s, err := b.session(args)
			if err != nil {
				return ToolResult{}, err
			}
			format, err := formatArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			p, err := s.Generate(ctx, format)
			if err != nil {
				return ToolResult{}, err
			}
			art, err := p.Wait(ctx)
			if err != nil {
				return ToolResult{}, err
			}
			return b.artifactResult(art, args)
		},
	}
}

func (b *Backend) closeSessionTool() Tool {
	return Tool{
		Name:        "close_session",
		Description: "Close a session and discard its data. A pending generation is cancelled.",
		InputSchema: schema([]string{"sessionId"}, map[string]interface{}{
			"sessionId": prop("string", "Session id"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			id, err := requireString(args, "sessionId")
			if err != nil {
				return ToolResult{}, err
			}
			if err := b.Sessions.Close(id); err != nil {
				return ToolResult{}, err
			}
			return ToolResult{Content: []ContentBlock{{Type: "text", Text: "Session closed: " + id}}}, nil
		},
	}
}

func assignmentFromCatalog(a catalog.CourseAssignment) doctpl.Assignment {
	return doctpl.Assignment{
		Title:   a.Title,
		Content: a.Content,
		Meta: doctpl.AssignmentMeta{
			Subject:    a.Subject,
			CourseCode: a.CourseCode,
			Semester:   strconv.Itoa(a.Semester),
			Author:     a.Uploader,
			Category:   a.Category,
		},
	}
}

func (b *Backend) generateAssignmentTool() Tool {
	return Tool{
		Name:        "generate_assignment",
		Description: "Export an assignment as a document. Either give 'assignmentId' from the catalog or a free 'title' and 'content'. With an id, a non-empty title or content replaces the catalog text.",
		InputSchema: schema(nil, map[string]interface{}{
			"assignmentId": prop("string", "Catalog assignment id"),
			"title":        prop("string", "Title for free text content"),
			"content":      prop("string", "Body text; markup is printed as written"),
			"format":       prop("string", "pdf (default), docx or txt"),
			"outputPath":   prop("string", "Optional file path to save the document"),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			format, err := formatArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			var a doctpl.Assignment
			if id := getString(args, "assignmentId"); id != "" {
				ca, err := b.assignment(id)
				if err != nil {
					return ToolResult{}, err
				}
				a = assignmentFromCatalog(ca)
				if title := getString(args, "title"); title != "" {
					a.Title = title
				}
				if content := getString(args, "content"); content != "" {
					a.Content = content
				}
			} else {
				content, err := requireString(args, "content")
				if err != nil {
					return ToolResult{}, err
				}
				a = doctpl.Assignment{Title: getString(args, "title"), Content: content}
			}
			art, err := b.Sessions.GenerateAssignment(ctx, a, format)
			if err != nil {
				return ToolResult{}, err
			}
			return b.artifactResult(art, args)
		},
	}
}

// assignmentListing leaves the body out of search results.
type assignmentListing struct {
	catalog.CourseAssignment
	Content string `json:"content,omitempty"`
}

func (b *Backend) searchAssignmentsTool() Tool {
	return Tool{
		Name:        "search_assignments",
		Description: "Search course assignments by term, course code and semester, sorted by newest, popular or downloads.",
		InputSchema: schema(nil, map[string]interface{}{
			"term":     prop("string", "Text matched against title, description, subject and tags"),
			"course":   prop("string", "Course code, e.g. BBA"),
			"semester": prop("number", "Semester number"),
			"sort":     prop("string", "newest (default), popular or downloads"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			q := catalog.AssignmentQuery{
				Term:     getString(args, "term"),
				Course:   getString(args, "course"),
				Semester: getInt(args, "semester"),
				Sort:     catalog.SortOrder(getString(args, "sort")),
			}
			found, err := b.Catalog.SearchAssignments(q)
			if err != nil {
				return ToolResult{}, err
			}
			courses := b.Catalog.Courses()
			if b.Board != nil {
				uploads, err := b.Board.SearchAssignments(q)
				if err != nil {
					return ToolResult{}, err
				}
				found = append(uploads, found...)
				if err := catalog.SortAssignments(found, q.Sort); err != nil {
					return ToolResult{}, err
				}
				for _, a := range b.Board.Assignments() {
					if !contains(courses, a.CourseCode) {
						courses = append(courses, a.CourseCode)
					}
				}
			}
			out := make([]assignmentListing, len(found))
			for i, a := range found {
				out[i] = assignmentListing{CourseAssignment: a}
			}
			return jsonResult(map[string]interface{}{
				"courses":     courses,
				"assignments": out,
			})
		},
	}
}

func (b *Backend) searchBlogsTool() Tool {
	return Tool{
		Name:        "search_blogs",
		Description: "Search blog posts by term and category, sorted by newest, popular or views.",
		InputSchema: schema(nil, map[string]interface{}{
			"term":     prop("string", "Text matched against title, excerpt and tags"),
			"category": prop("string", "Category or 'All'"),
			"sort":     prop("string", "newest (default), popular or views"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			q := catalog.BlogQuery{
				Term:     getString(args, "term"),
				Category: getString(args, "category"),
				Sort:     catalog.SortOrder(getString(args, "sort")),
			}
			found, err := b.Catalog.SearchBlogs(q)
			if err != nil {
				return ToolResult{}, err
			}
			if b.Board != nil {
				posts, err := b.Board.SearchBlogs(q)
				if err != nil {
					return ToolResult{}, err
				}
				found = append(posts, found...)
				if err := catalog.SortBlogs(found, q.Sort); err != nil {
					return ToolResult{}, err
				}
			}
			return jsonResult(found)
		},
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// assignment looks an id up in the catalog first, then among user uploads.
func (b *Backend) assignment(id string) (catalog.CourseAssignment, error) {
	ca, err := b.Catalog.Assignment(id)
	if err == nil || b.Board == nil {
		return ca, err
	}
	if up, uerr := b.Board.Assignment(id); uerr == nil {
		return up, nil
	}
	return ca, err
}

var errNoBoard = errors.New("user posts and uploads are disabled")

func (b *Backend) publishBlogTool() Tool {
	return Tool{
		Name:        "publish_blog",
		Description: "Publish a blog post, or edit one by giving its 'id'. The excerpt, tags and reading time are derived from the input.",
		InputSchema: schema([]string{"title", "content", "author"}, map[string]interface{}{
			"id":       prop("string", "Id of a user post to edit"),
			"title":    prop("string", "Post title"),
			"content":  prop("string", "Body in blog markup"),
			"author":   prop("string", "Author name"),
			"category": prop("string", "Category, General when empty"),
			"tags":     prop("string", "Comma separated tags"),
			"featured": prop("boolean", "Show the post as featured"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			if b.Board == nil {
				return ToolResult{}, errNoBoard
			}
			var d catalog.BlogDraft
			if err := decodeArg(args, &d); err != nil {
				return ToolResult{}, fmt.Errorf("invalid blog post: %w", err)
			}
			post, err := b.Board.PublishBlog(d)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(post)
		},
	}
}

func (b *Backend) readBlogTool() Tool {
	return Tool{
		Name:        "read_blog",
		Description: "Return a blog post with its full content. Reading a user post counts a view.",
		InputSchema: schema([]string{"id"}, map[string]interface{}{
			"id": prop("string", "Blog post id"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return ToolResult{}, err
			}
			post, err := b.Catalog.Blog(id)
			if err != nil && b.Board != nil {
				if up, uerr := b.Board.ViewBlog(id); uerr == nil {
					post, err = up, nil
				}
			}
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(post)
		},
	}
}

func (b *Backend) deleteBlogTool() Tool {
	return Tool{
		Name:        "delete_blog",
		Description: "Delete a user published blog post.",
		InputSchema: schema([]string{"id"}, map[string]interface{}{
			"id": prop("string", "Blog post id"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			if b.Board == nil {
				return ToolResult{}, errNoBoard
			}
			id, err := requireString(args, "id")
			if err != nil {
				return ToolResult{}, err
			}
			if err := b.Board.DeleteBlog(id); err != nil {
				return ToolResult{}, err
			}
			return jsonResult(map[string]string{"deleted": id})
		},
	}
}

func (b *Backend) uploadAssignmentTool() Tool {
	return Tool{
		Name:        "upload_assignment",
		Description: "Share an assignment for a course and semester. It appears in search_assignments and can be exported with generate_assignment.",
		InputSchema: schema([]string{"title", "courseCode", "semester", "subject", "content", "uploader"}, map[string]interface{}{
			"title":       prop("string", "Assignment title"),
			"description": prop("string", "Short summary"),
			"courseCode":  prop("string", "Course code, e.g. BCA"),
			"semester":    prop("number", "Semester number, 1 to 12"),
			"subject":     prop("string", "Subject or topic"),
			"category":    prop("string", "e.g. Research Paper, Case Study"),
			"content":     prop("string", "Body in assignment markup"),
			"uploader":    prop("string", "Name of the person sharing it"),
			"tags":        map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			if b.Board == nil {
				return ToolResult{}, errNoBoard
			}
			u := catalog.AssignmentUpload{
				Title:       getString(args, "title"),
				Description: getString(args, "description"),
				CourseCode:  getString(args, "courseCode"),
				Semester:    getInt(args, "semester"),
				Subject:     getString(args, "subject"),
				Category:    getString(args, "category"),
				Content:     getString(args, "content"),
				Uploader:    getString(args, "uploader"),
			}
			if tags, ok := args["tags"]; ok {
				if err := decodeArg(tags, &u.Tags); err != nil {
					return ToolResult{}, fmt.Errorf("invalid tags: %w", err)
				}
			}
			a, err := b.Board.UploadAssignment(u)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(assignmentListing{CourseAssignment: a})
		},
	}
}

func previewMarkupTool() Tool {
	return Tool{
		Name:        "preview_markup",
		Description: "Render assignment or blog markup (# headings, **bold**, - bullets, 1. numbered) to HTML with word count and reading time.",
		InputSchema: schema([]string{"text"}, map[string]interface{}{
			"text": prop("string", "Markup text"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			text := getString(args, "text")
			st := markup.Count(text)
			return jsonResult(map[string]interface{}{
				"html":     markup.Render(text),
				"stats":    st,
				"readTime": st.ReadTime(),
			})
		},
	}
}

// codePayload builds the encoded string for a generate_code request.
func codePayload(args map[string]interface{}) (string, error) {
	data := args["data"]
	switch kind := getString(args, "type"); kind {
	case "", "text":
		return codegen.TextPayload(getString(args, "text")), nil
	case "url":
		return codegen.URLPayload(getString(args, "text")), nil
	case "phone":
		return codegen.PhonePayload(getString(args, "text")), nil
	case "contact":
		var c codegen.Contact
		err := decodeArg(data, &c)
		return codegen.ContactPayload(c), err
	case "wifi":
		var w codegen.WiFi
		err := decodeArg(data, &w)
		return codegen.WiFiPayload(w), err
	case "email":
		var e struct {
			Address string `json:"address"`
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		err := decodeArg(data, &e)
		return codegen.EmailPayload(e.Address, e.Subject, e.Body), err
	case "location":
		var l struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		err := decodeArg(data, &l)
		return codegen.LocationPayload(l.Lat, l.Lng), err
	case "event":
		var e codegen.Event
		err := decodeArg(data, &e)
		return codegen.EventPayload(e), err
	default:
		return "", fmt.Errorf("unknown payload type %q", kind)
	}
}

func (b *Backend) generateCodeTool() Tool {
	return Tool{
		Name:        "generate_code",
		Description: "Generate a QR code or barcode as PNG or PDF. Payload types: text, url, phone (use 'text'), contact, wifi, email, location, event (use 'data').",
		InputSchema: schema(nil, map[string]interface{}{
			"symbology":  prop("string", "qr (default), code128, code39, ean, datamatrix or pdf417"),
			"type":       prop("string", "Payload type"),
			"text":       prop("string", "Text, URL or phone number"),
			"data":       prop("object", "Structured payload for contact, wifi, email, location and event"),
			"format":     prop("string", "png (default) or pdf"),
			"size":       prop("number", "Image width in pixels"),
			"outputPath": prop("string", "Optional file path to save the image"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			sym := codegen.QR
			if s := getString(args, "symbology"); s != "" {
				var err error
				if sym, err = codegen.ParseSymbology(s); err != nil {
					return ToolResult{}, err
				}
			}
			payload, err := codePayload(args)
			if err != nil {
				return ToolResult{}, err
			}
			format := smartdocs.Format(strings.ToLower(getString(args, "format")))
			art, err := b.Codes.Generate(codegen.Request{
				Symbology: sym,
				Payload:   payload,
				Size:      getInt(args, "size"),
				Format:    format,
			})
			if err != nil {
				return ToolResult{}, err
			}
			return b.artifactResult(art, args)
		},
	}
}

func (b *Backend) convertFileTool() Tool {
	return Tool{
		Name:        "convert_file",
		Description: "Run a conversion tool from the tools catalog on a file given by 'path' or inline as 'name' plus base64 'data'.",
		InputSchema: schema([]string{"toolId"}, map[string]interface{}{
			"toolId":       prop("string", "Tool id, e.g. word-to-pdf"),
			"path":         prop("string", "Path of the input file"),
			"name":         prop("string", "File name for inline data"),
			"data":         prop("string", "Base64 file content"),
			"outputFormat": prop("string", "One of the tool's output formats"),
			"outputPath":   prop("string", "Optional file path to save the result"),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			toolID, err := requireString(args, "toolId")
			if err != nil {
				return ToolResult{}, err
			}
			tool, ok := b.Catalog.Tool(toolID)
			if !ok {
				return ToolResult{}, fmt.Errorf("%w for %s", smartdocs.ErrUnsupportedTool, toolID)
			}

			var in convert.Input
			if path := getString(args, "path"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return ToolResult{}, fmt.Errorf("reading file: %w", err)
				}
				in = convert.Input{Name: filepath.Base(path), Data: data}
			} else {
				name, err := requireString(args, "name")
				if err != nil {
					return ToolResult{}, err
				}
				data, err := base64.StdEncoding.DecodeString(getString(args, "data"))
				if err != nil {
					return ToolResult{}, fmt.Errorf("decoding file data: %w", err)
				}
				in = convert.Input{Name: name, Data: data}
			}
			if ext := filepath.Ext(in.Name); !tool.Reads(ext) {
				return ToolResult{}, fmt.Errorf("%w: %s does not read %q", smartdocs.ErrUnsupportedFile, toolID, ext)
			}
			out := getString(args, "outputFormat")
			if out != "" && !tool.Accepts(out) {
				return ToolResult{}, fmt.Errorf("%w: %s does not produce %q", smartdocs.ErrUnsupportedFormat, toolID, out)
			}

			art, err := b.Converter.Convert(ctx, toolID, in, out)
			if err != nil {
				return ToolResult{}, err
			}
			return b.artifactResult(art, args)
		},
	}
}

func (b *Backend) listToolsTool() Tool {
	return Tool{
		Name:        "list_tools",
		Description: "List conversion and utility tools with their input and output formats.",
		InputSchema: schema(nil, map[string]interface{}{
			"category": prop("string", "document, image, text, utility or design"),
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (ToolResult, error) {
			category := getString(args, "category")
			var out []catalog.Tool
			for _, t := range b.Catalog.Tools() {
				if category == "" || strings.EqualFold(t.Category, category) {
					out = append(out, t)
				}
			}
			return jsonResult(out)
		},
	}
}
