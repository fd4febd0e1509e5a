package routes

import (
	"github.com/ryanlai666/Meat-Cut/config"
	"github.com/ryanlai666/Meat-Cut/controllers"
	"github.com/ryanlai666/Meat-Cut/middlewares"
	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(store services.AssetStore) *gin.Engine {
	r := gin.Default()

	repo := models.NewCutsRepository(config.DB)
	hub := services.NewSyncHub()

	catalogSvc := services.NewCatalogService(repo, store)
	searchSvc := services.NewSearchService(repo)
	csvSvc := services.NewCsvService(repo)
	matcherSvc := services.NewMatcherService(repo, store)
	syncSvc := services.NewSyncService(repo, store)

	cuts := controllers.NewCutController(catalogSvc)
	search := controllers.NewSearchController(searchSvc)
	csv := controllers.NewCsvController(csvSvc, hub)
	sync := controllers.NewSyncController(syncSvc, matcherSvc, hub)

	// Public browsing API
	api := r.Group("/api")
	{
		api.GET("/cuts", search.Search)
		api.GET("/cuts/:slug", cuts.GetCut)
		api.GET("/facets", search.Facets)
		api.GET("/sync/status", sync.Status)
	}

	r.POST("/auth/login", controllers.Login)

	// Admin API
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.POST("/cuts", cuts.CreateCut)
		admin.PUT("/cuts/:id", cuts.UpdateCut)
		admin.DELETE("/cuts/:id", cuts.DeleteCut)
		admin.POST("/cuts/:id/image", cuts.AttachImage)

		admin.GET("/export/csv", csv.Export)
		admin.POST("/import/csv", csv.Import)

		admin.POST("/sync/match", sync.Match)
		admin.POST("/sync/reconcile", sync.Reconcile)
		admin.POST("/sync/images", sync.UploadImages)
		admin.GET("/sync/ws", sync.EventsWS)
	}

	return r
}
