package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/markup"
)

// ExcerptLength is the number of characters of a post body kept as its excerpt.
const ExcerptLength = 150

// DefaultBlogCategory is used when a post is published without a category.
const DefaultBlogCategory = "General"

// BlogDraft is the author input for a user blog post. An empty ID publishes
// a new post; a known ID edits that post.
type BlogDraft struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Category string `json:"category,omitempty"`
	Tags     string `json:"tags,omitempty"` // comma separated
	Featured bool   `json:"featured,omitempty"`
}

// AssignmentUpload is the input for a user uploaded assignment.
type AssignmentUpload struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	CourseCode  string   `json:"courseCode" validate:"required"`
	Semester    int      `json:"semester" validate:"min=1,max=12"`
	Subject     string   `json:"subject" validate:"required"`
	Category    string   `json:"category,omitempty"`
	Content     string   `json:"content" validate:"required"`
	Uploader    string   `json:"uploader" validate:"required"`
	Tags        []string `json:"tags,omitempty"`
}

// Board keeps the blog posts and assignments users publish while the process
// runs. Unlike Library it is mutable; it is safe for concurrent use and all
// accessors return copies. Nothing is persisted.
type Board struct {
	now func() time.Time

	mu          sync.Mutex
	blogs       []BlogPost
	assignments []CourseAssignment
}

// NewBoard returns an empty board. A nil clock uses time.Now.
func NewBoard(now func() time.Time) *Board {
	if now == nil {
		now = time.Now
	}
	return &Board{now: now}
}

// Excerpt returns the first ExcerptLength characters of content followed by
// an ellipsis.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) > ExcerptLength {
		content = string([]rune(content)[:ExcerptLength])
	}
	return content + "..."
}

// SplitTags splits a comma separated tag list, dropping empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PublishBlog creates a post from d, or updates the post with d.ID. Edits
// keep the original publish date and view count.
func (b *Board) PublishBlog(d BlogDraft) (BlogPost, error) {
	if err := smartdocs.Validator().Struct(d); err != nil {
		return BlogPost{}, fmt.Errorf("catalog: invalid blog post: %w", err)
	}
	post := BlogPost{
		ID:       d.ID,
		Title:    strings.TrimSpace(d.Title),
		Excerpt:  Excerpt(d.Content),
		Content:  d.Content,
		Author:   strings.TrimSpace(d.Author),
		ReadTime: markup.Count(d.Content).ReadTime(),
		Category: strings.TrimSpace(d.Category),
		Featured: d.Featured,
		Tags:     SplitTags(d.Tags),
	}
	if post.Category == "" {
		post.Category = DefaultBlogCategory
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if d.ID != "" {
		for i, old := range b.blogs {
			if old.ID == d.ID {
				post.PublishDate = old.PublishDate
				post.Views = old.Views
				b.blogs[i] = post
				return copyBlog(post), nil
			}
		}
		return BlogPost{}, fmt.Errorf("catalog: unknown blog post %q", d.ID)
	}
	post.ID = uuid.NewString()
	post.PublishDate = b.now().Format("2006-01-02")
	b.blogs = append([]BlogPost{post}, b.blogs...)
	return copyBlog(post), nil
}

// ViewBlog returns the post with id and counts one view.
func (b *Board) ViewBlog(id string) (BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.blogs {
		if b.blogs[i].ID == id {
			b.blogs[i].Views++
			return copyBlog(b.blogs[i]), nil
		}
	}
	return BlogPost{}, fmt.Errorf("catalog: unknown blog post %q", id)
}

// DeleteBlog removes the post with id.
func (b *Board) DeleteBlog(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.blogs {
		if b.blogs[i].ID == id {
			b.blogs = append(b.blogs[:i], b.blogs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("catalog: unknown blog post %q", id)
}

// Blogs returns every user post, most recently published first.
func (b *Board) Blogs() []BlogPost {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BlogPost, len(b.blogs))
	for i, p := range b.blogs {
		out[i] = copyBlog(p)
	}
	return out
}

// SearchBlogs filters and sorts user posts the same way Library.SearchBlogs
// does for the catalog.
func (b *Board) SearchBlogs(q BlogQuery) ([]BlogPost, error) {
	var out []BlogPost
	for _, p := range b.Blogs() {
		if q.match(p) {
			out = append(out, p)
		}
	}
	if err := SortBlogs(out, q.Sort); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadAssignment records a user assignment. The word count is derived from
// the content and downloads start at zero.
func (b *Board) UploadAssignment(u AssignmentUpload) (CourseAssignment, error) {
	if err := smartdocs.Validator().Struct(u); err != nil {
		return CourseAssignment{}, fmt.Errorf("catalog: invalid assignment: %w", err)
	}
	a := CourseAssignment{
		ID:          uuid.NewString(),
		CourseCode:  strings.TrimSpace(u.CourseCode),
		Semester:    u.Semester,
		Subject:     strings.TrimSpace(u.Subject),
		Title:       strings.TrimSpace(u.Title),
		Description: u.Description,
		Category:    u.Category,
		WordCount:   markup.Count(u.Content).Words,
		UploadDate:  b.now().Format("2006-01-02"),
		Uploader:    strings.TrimSpace(u.Uploader),
		Tags:        append([]string(nil), u.Tags...),
		Content:     u.Content,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments = append([]CourseAssignment{a}, b.assignments...)
	return copyAssignment(a), nil
}

// Assignment looks up an uploaded assignment by id.
func (b *Board) Assignment(id string) (CourseAssignment, error) {
	for _, a := range b.Assignments() {
		if a.ID == id {
			return a, nil
		}
	}
	return CourseAssignment{}, fmt.Errorf("catalog: unknown assignment %q", id)
}

// Assignments returns every uploaded assignment, most recent first.
func (b *Board) Assignments() []CourseAssignment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]CourseAssignment, len(b.assignments))
	for i, a := range b.assignments {
		out[i] = copyAssignment(a)
	}
	return out
}

// SearchAssignments filters and sorts uploaded assignments with the catalog
// query rules.
func (b *Board) SearchAssignments(q AssignmentQuery) ([]CourseAssignment, error) {
	var out []CourseAssignment
	for _, a := range b.Assignments() {
		if q.match(a) {
			out = append(out, a)
		}
	}
	if err := SortAssignments(out, q.Sort); err != nil {
		return nil, err
	}
	return out, nil
}

func copyBlog(p BlogPost) BlogPost {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func copyAssignment(a CourseAssignment) CourseAssignment {
	a.Tags = append([]string(nil), a.Tags...)
	return a
}
