package main

import (
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

type Blog struct {
	posts     PostService
	templates map[string]*template.Template
	store     sessions.Store
	log       *slog.Logger
}

func NewBlog(posts PostService, store sessions.Store, log *slog.Logger) *Blog {
	return &Blog{
		posts:     posts,
		templates: loadTemplates(),
		store:     store,
		log:       log,
	}
}

func main() {
	godotenv.Load()

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := setUpLogger(cfg.Env, os.Stdout)
	slog.SetDefault(logger)

	client := NewPostsClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	store := newSessionStore(cfg.SessionKey, cfg.SecureCookies)
	blog := NewBlog(client, store, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           blog.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting", "addr", cfg.Addr, "posts_api", cfg.APIBaseURL, "env", cfg.Env)
	log.Fatal(srv.ListenAndServe())
}
