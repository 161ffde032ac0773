package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (b *Blog) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", staticHandler())

	r.Get("/", b.Home)

	r.Get("/posts/new", b.Create)
	r.Post("/posts/new", b.Create)
	r.Post("/posts/validate", b.ValidateField)

	r.Get("/posts/{id}", b.Detail)

	r.Get("/posts/{id}/edit", b.Edit)
	r.Post("/posts/{id}/edit", b.Edit)

	r.Get("/posts/{id}/delete", b.Delete)
	r.Post("/posts/{id}/delete", b.Delete)

	r.Post("/theme", b.Theme)

	return r
}
