package main

import (
	"context"
	"net/url"
	"strings"
)

// Phase is where a view is in its fetch lifecycle. Each view only moves
// along the transitions its methods allow.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseErrored
	// PhaseConfirmed is terminal: the post shown by the view was deleted.
	PhaseConfirmed
)

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is the single message shown above a view's content.
type Banner struct {
	Kind BannerKind
	Text string
}

func successBanner(text string) Banner { return Banner{Kind: BannerSuccess, Text: text} }
func errorBanner(text string) Banner   { return Banner{Kind: BannerError, Text: text} }

func (b Banner) IsSuccess() bool { return b.Kind == BannerSuccess }
func (b Banner) IsError() bool   { return b.Kind == BannerError }

const (
	fallbackListFetch    = "Fetch error"
	fallbackListDelete   = "Delete error occurred"
	fallbackDetailFetch  = "Blog post not found"
	fallbackDetailDelete = "Delete API error!"
	fallbackFormLoad     = "Error loading post"
	fallbackCreate       = "Required fields missing"
	fallbackUpdate       = "API validation error on update"
)

// alive reports whether a result for the view that owns ctx may still be
// applied.
func alive(ctx context.Context) bool {
	return ctx.Err() == nil
}

// List view

type ListLayout int

const (
	ListLoading ListLayout = iota
	// ListUnavailable is the error panel shown when there is nothing else
	// to render.
	ListUnavailable
	ListGrid
)

type ListView struct {
	Phase  Phase
	Posts  []Post
	Banner Banner
}

func NewListView() *ListView {
	return &ListView{Phase: PhaseLoading, Posts: []Post{}}
}

// Resolve applies the outcome of a list fetch. It returns false when ctx is
// done and the outcome was discarded.
func (v *ListView) Resolve(ctx context.Context, posts []Post, err error) bool {
	if !alive(ctx) {
		return false
	}
	if err != nil {
		v.Phase = PhaseErrored
		v.Posts = []Post{}
		v.Banner = errorBanner(errorMessage(err, fallbackListFetch))
		return true
	}

	v.Phase = PhaseLoaded
	if posts == nil {
		posts = []Post{}
	}
	v.Posts = posts
	if v.Banner.IsError() {
		v.Banner = Banner{}
	}
	return true
}

// listDeleteBanner turns the outcome of a delete started from the list into
// its banner: flashed over the refetched list on success, shown on the
// confirmation page on failure.
func listDeleteBanner(result *DeleteResult, err error) Banner {
	if err != nil {
		return errorBanner(errorMessage(err, fallbackListDelete))
	}
	return successBanner(result.Message)
}

// Restore re-applies a delete outcome after the list was fetched. A failed
// fetch keeps its own error.
func (v *ListView) Restore(b Banner) {
	if v.Phase != PhaseLoaded || b.Kind == BannerNone {
		return
	}
	v.Banner = b
}

func (v *ListView) Layout() ListLayout {
	switch {
	case v.Phase == PhaseLoading:
		return ListLoading
	case v.Banner.IsError() && len(v.Posts) == 0:
		return ListUnavailable
	default:
		return ListGrid
	}
}

func (v *ListView) Loading() bool     { return v.Layout() == ListLoading }
func (v *ListView) Unavailable() bool { return v.Layout() == ListUnavailable }

// Detail view

type DetailView struct {
	ID      string
	Phase   Phase
	Post    *Post
	Message string
}

func NewDetailView(id string) *DetailView {
	return &DetailView{ID: id, Phase: PhaseLoading}
}

func (v *DetailView) Resolve(ctx context.Context, post *Post, err error) bool {
	if !alive(ctx) {
		return false
	}
	if err != nil {
		v.Phase = PhaseErrored
		v.Post = nil
		v.Message = errorMessage(err, fallbackDetailFetch)
		return true
	}
	v.Phase = PhaseLoaded
	v.Post = post
	v.Message = ""
	return true
}

// Deleted applies the outcome of a delete. Success is terminal.
func (v *DetailView) Deleted(ctx context.Context, result *DeleteResult, err error) bool {
	if !alive(ctx) {
		return false
	}
	v.Post = nil
	if err != nil {
		v.Phase = PhaseErrored
		v.Message = errorMessage(err, fallbackDetailDelete)
		return true
	}
	v.Phase = PhaseConfirmed
	v.Message = result.Message
	return true
}

func (v *DetailView) Loading() bool   { return v.Phase == PhaseLoading }
func (v *DetailView) Errored() bool   { return v.Phase == PhaseErrored }
func (v *DetailView) Confirmed() bool { return v.Phase == PhaseConfirmed }

// Form view

type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

const (
	fieldTitle   = "title"
	fieldContent = "content"
	fieldAuthor  = "author"
)

var formFields = []string{fieldTitle, fieldContent, fieldAuthor}

func isFormField(name string) bool {
	for _, f := range formFields {
		if f == name {
			return true
		}
	}
	return false
}

func requiredMessage(field string) string {
	if field == "" {
		return ""
	}
	return strings.ToUpper(field[:1]) + field[1:] + " is required"
}

type FormView struct {
	Mode   FormMode
	ID     string
	Phase  Phase
	Fields PostInput
	Errors map[string]string
	Banner Banner
}

// NewFormView returns a form for mode. An edit form starts out loading until
// Preloaded is called.
func NewFormView(mode FormMode, id string) *FormView {
	v := &FormView{
		Mode:   mode,
		ID:     id,
		Phase:  PhaseLoaded,
		Errors: map[string]string{},
	}
	if mode == ModeEdit {
		v.Phase = PhaseLoading
	}
	return v
}

func (v *FormView) Preloaded(ctx context.Context, post *Post, err error) bool {
	if !alive(ctx) {
		return false
	}
	v.Phase = PhaseLoaded
	if err != nil {
		v.Banner = errorBanner(errorMessage(err, fallbackFormLoad))
		return true
	}
	v.Fields = PostInput{Title: post.Title, Content: post.Content, Author: post.Author}
	v.Banner = Banner{}
	return true
}

// Bind takes the field values posted back by the browser. A posted edit form
// is no longer loading.
func (v *FormView) Bind(values url.Values) {
	v.Phase = PhaseLoaded
	for _, f := range formFields {
		v.Change(f, values.Get(f))
	}
}

func (v *FormView) Value(field string) string {
	switch field {
	case fieldTitle:
		return v.Fields.Title
	case fieldContent:
		return v.Fields.Content
	case fieldAuthor:
		return v.Fields.Author
	}
	return ""
}

// Change sets a field and clears that field's error only.
func (v *FormView) Change(field, value string) {
	switch field {
	case fieldTitle:
		v.Fields.Title = value
	case fieldContent:
		v.Fields.Content = value
	case fieldAuthor:
		v.Fields.Author = value
	default:
		return
	}
	delete(v.Errors, field)
}

// Blur marks field as missing when it is blank. Other fields are left alone.
func (v *FormView) Blur(field string) {
	if !isFormField(field) {
		return
	}
	if strings.TrimSpace(v.Value(field)) == "" {
		v.Errors[field] = requiredMessage(field)
	}
}

// Validate recomputes every field error and reports whether the form may be
// submitted.
func (v *FormView) Validate() bool {
	errs := map[string]string{}
	for _, f := range formFields {
		if strings.TrimSpace(v.Value(f)) == "" {
			errs[f] = requiredMessage(f)
		}
	}
	v.Errors = errs
	return len(errs) == 0
}

// Submitted applies the outcome of a create or update call.
func (v *FormView) Submitted(ctx context.Context, err error) bool {
	if !alive(ctx) {
		return false
	}
	if err != nil {
		fallback := fallbackCreate
		if v.Mode == ModeEdit {
			fallback = fallbackUpdate
		}
		v.Banner = errorBanner(errorMessage(err, fallback))
		return true
	}
	if v.Mode == ModeEdit {
		v.Banner = successBanner("Blog post updated successfully!")
	} else {
		v.Banner = successBanner("Blog post created successfully!")
	}
	return true
}

func (v *FormView) Loading() bool { return v.Phase == PhaseLoading }
func (v *FormView) Editing() bool { return v.Mode == ModeEdit }
