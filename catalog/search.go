package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPopular   SortOrder = "popular"
	SortDownloads SortOrder = "downloads"
	SortViews     SortOrder = "views"
)

// AssignmentQuery filters course assignments. Zero values match everything.
type AssignmentQuery struct {
	Term     string    // matched case-insensitively against title, description, subject and tags
	Course   string    // exact course code, "All" or empty for any
	Semester int       // 0 for any
	Sort     SortOrder // newest (default), popular or downloads
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

func (q AssignmentQuery) match(a CourseAssignment) bool {
	if q.Course != "" && q.Course != "All" && a.CourseCode != q.Course {
		return false
	}
	if q.Semester != 0 && a.Semester != q.Semester {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term == "" {
		return true
	}
	if containsFold(a.Title, term) || containsFold(a.Description, term) || containsFold(a.Subject, term) {
		return true
	}
	for _, tag := range a.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

// Assignments returns every course assignment in catalog order.
func (l *Library) Assignments() []CourseAssignment {
	out := make([]CourseAssignment, len(l.assignments))
	for i, a := range l.assignments {
		a.Tags = append([]string(nil), a.Tags...)
		out[i] = a
	}
	return out
}

// Assignment looks up a course assignment by id.
func (l *Library) Assignment(id string) (CourseAssignment, error) {
	for _, a := range l.Assignments() {
		if a.ID == id {
			return a, nil
		}
	}
	return CourseAssignment{}, fmt.Errorf("catalog: unknown assignment %q", id)
}

// Courses returns the distinct course codes in catalog order.
func (l *Library) Courses() []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range l.assignments {
		if !seen[a.CourseCode] {
			seen[a.CourseCode] = true
			out = append(out, a.CourseCode)
		}
	}
	return out
}

// SearchAssignments filters and sorts course assignments. Ties keep catalog
// order.
func (l *Library) SearchAssignments(q AssignmentQuery) ([]CourseAssignment, error) {
	var out []CourseAssignment
	for _, a := range l.Assignments() {
		if q.match(a) {
			out = append(out, a)
		}
	}
	if err := SortAssignments(out, q.Sort); err != nil {
		return nil, err
	}
	return out, nil
}

// SortAssignments orders out in place. Ties keep their order.
func SortAssignments(out []CourseAssignment, order SortOrder) error {
	switch order {
	case "", SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate > out[j].UploadDate })
	case SortPopular, SortDownloads:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Downloads > out[j].Downloads })
	default:
		return fmt.Errorf("catalog: unknown sort order %q", order)
	}
	return nil
}

// BlogQuery filters blog posts. Zero values match everything.
type BlogQuery struct {
	Term     string    // matched against title, excerpt and tags
	Category string    // "All" or empty for any
	Sort     SortOrder // newest (default), popular or views
}

func (q BlogQuery) match(b BlogPost) bool {
	if q.Category != "" && q.Category != "All" && !strings.EqualFold(b.Category, q.Category) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term == "" {
		return true
	}
	if containsFold(b.Title, term) || containsFold(b.Excerpt, term) {
		return true
	}
	for _, tag := range b.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

// Blogs returns every blog post in catalog order.
func (l *Library) Blogs() []BlogPost {
	out := make([]BlogPost, len(l.blogs))
	for i, b := range l.blogs {
		b.Tags = append([]string(nil), b.Tags...)
		out[i] = b
	}
	return out
}

// Blog looks up a blog post by id.
func (l *Library) Blog(id string) (BlogPost, error) {
	for _, b := range l.Blogs() {
		if b.ID == id {
			return b, nil
		}
	}
	return BlogPost{}, fmt.Errorf("catalog: unknown blog post %q", id)
}

// SearchBlogs filters and sorts blog posts. Ties keep catalog order.
func (l *Library) SearchBlogs(q BlogQuery) ([]BlogPost, error) {
	var out []BlogPost
	for _, b := range l.Blogs() {
		if q.match(b) {
			out = append(out, b)
		}
	}
	if err := SortBlogs(out, q.Sort); err != nil {
		return nil, err
	}
	return out, nil
}

// SortBlogs orders out in place. Ties keep their order.
func SortBlogs(out []BlogPost, order SortOrder) error {
	switch order {
	case "", SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PublishDate > out[j].PublishDate })
	case SortPopular, SortViews:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	default:
		return fmt.Errorf("catalog: unknown sort order %q", order)
	}
	return nil
}
