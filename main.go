package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blog/api"
	"blog/config"
	"blog/database"
	"blog/middleware"
	"blog/repository"
	"blog/services"
	"blog/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}

	router, err := newRouter(cfg, db)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("INFO: [Main] Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: [Main] Received %s, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR: [Main] Server shutdown failed: %v", err)
	}
	if err := database.Close(db); err != nil {
		log.Printf("ERROR: [Main] Failed to close database: %v", err)
	}
	log.Println("INFO: [Main] Server stopped.")
}

func newRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	postService := services.NewPostService(postRepo)
	commentService := services.NewCommentService(commentRepo)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo)
	log.Println("INFO: [Main] Services initialized.")

	renderer, err := web.DefaultTemplates()
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	r.Use(middleware.ResponseTime())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	apiGroup := r.Group("/api")
	api.NewAPIHandler(postService, commentService, taxonomyService).RegisterRoutes(apiGroup)

	pages := web.NewHandler(cfg, postService, commentService, taxonomyService)
	pages.RegisterRoutes(r)
	r.NoRoute(pages.NotFound)
	log.Println("INFO: [Main] Routes registered.")

	return r, nil
}
