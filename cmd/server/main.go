package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"sheetchat/config"
	"sheetchat/database"
	"sheetchat/router"

	"sheetchat/pkg/ai"
	chatCtrlImp "sheetchat/pkg/chat/controllerImp"
	chatSvcImp "sheetchat/pkg/chat/serviceImp"
	docCtrlImp "sheetchat/pkg/document/controllerImp"
	docRepoImp "sheetchat/pkg/document/repositoryImp"
	healthCtrlImp "sheetchat/pkg/health/controllerImp"
	ragSvcImp "sheetchat/pkg/rag/serviceImp"
)

func main() {
	// 1) Config
	cfg := config.Load()
	ragCfg, err := config.LoadRAG(cfg.RAGConfigPath)
	if err != nil {
		log.Fatalf("rag config: %v", err)
	}

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Echo
	e := echo.New()
	e.Use(echoMiddleware.Recover())

	// 4) Providers
	factory := ai.Factory{
		OllamaURL:      cfg.OllamaURL,
		OpenAIEndpoint: cfg.OpenAIEndpoint,
		OpenAIKey:      cfg.OpenAIKey,
	}

	// 5) RAG pipeline
	ragSvc := ragSvcImp.New(ragSvcImp.Options{
		ChunkSize:    ragCfg.ChunkSize,
		ChunkOverlap: ragCfg.ChunkOverlap,
		KRatio:       ragCfg.KRatio,
		KFloor:       ragCfg.KFloor,
		KCeil:        ragCfg.KCeil,
		MinScore:     ragCfg.MinScore,
		Concurrency:  ragCfg.Concurrency,
		EmbedBatch:   ragCfg.EmbedBatch,
	})

	// 6) Repos/Services/Controllers
	docRepo := docRepoImp.New(db)
	docCtrl := docCtrlImp.New(docRepo)
	chatSvc := chatSvcImp.New(docRepo, ragSvc, factory)
	chatCtrl := chatCtrlImp.New(chatSvc, factory, time.Duration(cfg.StreamDelayMS)*time.Millisecond)
	hCtrl := healthCtrlImp.NewHealthCtrl(db)

	// 7) Router
	r := router.New(e, docCtrl, chatCtrl, hCtrl)

	// 8) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
