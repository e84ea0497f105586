package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GreenvaleServices/lawn-portal/internal/config"
	dbpkg "github.com/GreenvaleServices/lawn-portal/internal/db"
	"github.com/GreenvaleServices/lawn-portal/internal/middleware"
	"github.com/GreenvaleServices/lawn-portal/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
