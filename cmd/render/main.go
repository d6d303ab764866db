package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mairiedoc/mairiedoc/internal/config"
	"github.com/mairiedoc/mairiedoc/internal/database"
	dochandler "github.com/mairiedoc/mairiedoc/internal/document/handler"
	docrepo "github.com/mairiedoc/mairiedoc/internal/document/repository"
	docservice "github.com/mairiedoc/mairiedoc/internal/document/service"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
	"github.com/mairiedoc/mairiedoc/internal/personne"
	"github.com/mairiedoc/mairiedoc/internal/render"
	"github.com/mairiedoc/mairiedoc/internal/template"
)

// Standalone render service: exposes the document API without auth or
// rate limiting. Intended for internal deployments and local testing;
// falls back to memory-backed repositories when MongoDB is unavailable.
func main() {
	port := os.Getenv("RENDER_SERVICE_PORT")
	if port == "" {
		port = "5030"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	compiler := render.NewCompiler(cfg.LaTeX.Binary, cfg.LaTeX.Timeout, cfg.LaTeX.WorkDir)

	deps := docservice.Deps{Compiler: compiler}
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repos", err)
		} else {
			db := client.Database(cfg.MongoDB.Database)
			docs := docrepo.NewMongoRepo(db)
			deps.Docs = docs
			deps.Bindings = docrepo.NewMongoBindingRepo(db)
			deps.Templates = template.NewService(template.NewMongoRepository(db), docs)
			deps.Persons = personne.NewMongoRepository(db)
			deps.Mairie = municipality.NewMongoRepository(db)
			deps.RecordURI = cfg.MongoDB.URI
			deps.RecordDB = cfg.MongoDB.Database
		}
	}
	if deps.Docs == nil {
		docs := docrepo.NewMemoryRepo()
		deps.Docs = docs
		deps.Bindings = docrepo.NewMemoryBindingRepo()
		deps.Templates = template.NewService(template.NewMemoryRepository(), docs)
		deps.Persons = personne.NewMemoryRepository()
		deps.Mairie = municipality.NewMemoryRepository()
	}
	svc := docservice.NewService(deps)

	dochandler.RegisterRoutes(r.Group("/documents"), svc, nil)

	log.Printf("render service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
