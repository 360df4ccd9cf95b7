package v1

import (
	"pagereader/internal/api/v1/journal"
	"pagereader/internal/api/v1/pages"
	"pagereader/internal/core"
	"pagereader/internal/storage"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures API routes. store may be nil.
func SetupRoutes(routerGroup *gin.RouterGroup, reader *core.Reader, store *storage.Storage) {
	pagesHandler := pages.NewHandler(reader)

	routerGroup.GET("/pages/:number", pagesHandler.Get)

	var fetchJournal *storage.Journal
	if store != nil {
		fetchJournal = storage.NewJournal(store)
	}
	journalHandler := journal.NewHandler(fetchJournal)

	journalGroup := routerGroup.Group("/journal")
	{
		journalGroup.GET("/stats", journalHandler.Stats)
		journalGroup.GET("/recent", journalHandler.Recent)
	}
}
