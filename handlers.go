package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
)

// errorStatus picks the response status for a page showing a transport
// failure: client errors reported by the API pass through, anything else is
// a bad gateway.
func errorStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind == KindServer &&
		apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (b *Blog) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	data["CSRFToken"] = b.csrfToken(w, r)
	data["DarkMode"] = b.darkMode(r)

	var buf bytes.Buffer
	if err := b.templates[page].ExecuteTemplate(&buf, "base", data); err != nil {
		b.log.Error("rendering page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pending := b.takeFlash(w, r)

	view := NewListView()
	posts, err := b.posts.List(ctx)
	if !view.Resolve(ctx, posts, err) {
		return
	}
	view.Restore(pending)

	status := http.StatusOK
	if err != nil {
		b.log.Warn("listing posts", "error", err)
		status = errorStatus(err)
	}

	data := map[string]any{
		"Title": "Home",
		"View":  view,
	}
	b.render(w, r, status, "list.html", data)
}

func (b *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	view := NewDetailView(id)
	post, err := b.posts.Get(ctx, id)
	if !view.Resolve(ctx, post, err) {
		return
	}

	status := http.StatusOK
	title := "Post"
	if err != nil {
		b.log.Warn("fetching post", "id", id, "error", err)
		status = errorStatus(err)
	} else {
		title = post.Title
	}

	data := map[string]any{
		"Title": title,
		"View":  view,
	}
	b.render(w, r, status, "detail.html", data)
}

func (b *Blog) Create(w http.ResponseWriter, r *http.Request) {
	view := NewFormView(ModeCreate, "")

	if r.Method == http.MethodGet {
		b.renderForm(w, r, http.StatusOK, view)
		return
	}

	if r.Method == http.MethodPost {
		if !b.checkCSRF(w, r) {
			return
		}
		b.submit(w, r, view)
	}
}

func (b *Blog) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	view := NewFormView(ModeEdit, id)

	if r.Method == http.MethodGet {
		post, err := b.posts.Get(ctx, id)
		if !view.Preloaded(ctx, post, err) {
			return
		}

		status := http.StatusOK
		if err != nil {
			b.log.Warn("loading post for edit", "id", id, "error", err)
			status = errorStatus(err)
		}
		b.renderForm(w, r, status, view)
		return
	}

	if r.Method == http.MethodPost {
		if !b.checkCSRF(w, r) {
			return
		}
		b.submit(w, r, view)
	}
}

// submit validates the posted fields and, when they pass, creates or updates
// the post. The form is rendered again in every case.
func (b *Blog) submit(w http.ResponseWriter, r *http.Request, view *FormView) {
	ctx := r.Context()
	view.Bind(r.PostForm)

	if !view.Validate() {
		b.renderForm(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	var err error
	if view.Mode == ModeEdit {
		_, err = b.posts.Update(ctx, view.ID, view.Fields)
	} else {
		_, err = b.posts.Create(ctx, view.Fields)
	}
	if !view.Submitted(ctx, err) {
		return
	}

	status := http.StatusOK
	if err != nil {
		b.log.Warn("saving post", "mode", view.Mode.String(), "id", view.ID, "error", err)
		status = errorStatus(err)
	}
	b.renderForm(w, r, status, view)
}

func (b *Blog) renderForm(w http.ResponseWriter, r *http.Request, status int, view *FormView) {
	title := "New Post"
	if view.Editing() {
		title = "Edit Post"
	}
	data := map[string]any{
		"Title": title,
		"View":  view,
	}
	b.render(w, r, status, "form.html", data)
}

// ValidateField checks a single field when it loses focus and answers with
// its inline error, or nothing.
func (b *Blog) ValidateField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	field := r.FormValue("field")
	if !isFormField(field) {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	view := NewFormView(ModeCreate, "")
	view.Change(field, r.FormValue("value"))
	view.Blur(field)

	message := view.Errors[field]
	if message == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data := map[string]any{
		"Field":   field,
		"Message": message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := b.templates["form.html"].ExecuteTemplate(w, "field-error", data); err != nil {
		b.log.Error("rendering field error", "field", field, "error", err)
	}
}

const (
	fromList   = "list"
	fromDetail = "detail"
)

func deleteOrigin(v string) string {
	if v == fromList {
		return fromList
	}
	return fromDetail
}

// Delete asks for confirmation on GET and deletes on POST. A successful
// delete started from the list goes back to a freshly fetched list; a failed
// one stays on the confirmation page with the error. One started from the
// detail page ends on a confirmation.
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if r.Method == http.MethodGet {
		b.renderDelete(w, r, http.StatusOK, id, deleteOrigin(r.URL.Query().Get("from")), Banner{})
		return
	}

	if r.Method == http.MethodPost {
		if !b.checkCSRF(w, r) {
			return
		}

		result, err := b.posts.Delete(ctx, id)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			b.log.Warn("deleting post", "id", id, "error", err)
		}

		if deleteOrigin(r.FormValue("from")) == fromList {
			// A failed delete leaves the list untouched, so nothing is refetched.
			if err != nil {
				b.renderDelete(w, r, errorStatus(err), id, fromList, listDeleteBanner(result, err))
				return
			}
			if err := b.flash(w, r, listDeleteBanner(result, nil)); err != nil {
				b.log.Error("saving flash", "error", err)
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		view := NewDetailView(id)
		view.Deleted(ctx, result, err)

		status := http.StatusOK
		title := "Post deleted"
		if err != nil {
			status = errorStatus(err)
			title = "Post"
		}
		data := map[string]any{
			"Title": title,
			"View":  view,
		}
		b.render(w, r, status, "detail.html", data)
	}
}

func (b *Blog) renderDelete(w http.ResponseWriter, r *http.Request, status int, id, from string, banner Banner) {
	back := "/posts/" + url.PathEscape(id)
	if from == fromList {
		back = "/"
	}

	data := map[string]any{
		"Title":  "Delete post",
		"ID":     id,
		"From":   from,
		"Back":   back,
		"Banner": banner,
	}
	b.render(w, r, status, "delete.html", data)
}

func (b *Blog) Theme(w http.ResponseWriter, r *http.Request) {
	if !b.checkCSRF(w, r) {
		return
	}

	if err := b.toggleTheme(w, r); err != nil {
		b.log.Error("saving theme", "error", err)
	}

	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		back = ref.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
