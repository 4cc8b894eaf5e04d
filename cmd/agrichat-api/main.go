package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	httpadapter "github.com/sesitech/agrichat/internal/adapters/http"
	"github.com/sesitech/agrichat/internal/adapters/inbox"
	"github.com/sesitech/agrichat/internal/adapters/llm"
	filestore "github.com/sesitech/agrichat/internal/adapters/storage/file"
	memstore "github.com/sesitech/agrichat/internal/adapters/storage/memory"
	sqlitestore "github.com/sesitech/agrichat/internal/adapters/storage/sqlite"
	"github.com/sesitech/agrichat/internal/app/chat"
	"github.com/sesitech/agrichat/internal/app/report"
	"github.com/sesitech/agrichat/internal/config"
	"github.com/sesitech/agrichat/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	// LLM: mock or Vertex (useful for dev)
	var (
		answerClient domain.AnswerClient
		reportClient domain.ReportClient
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock collaborators")
		mock := llm.NewMock()
		answerClient, reportClient = mock, mock
	} else {
		log.Println("[LLM] Using Vertex collaborators")
		vertex, err := llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Vertex client: %v", err)
		}
		// 1 client, implements both collaborators
		answerClient, reportClient = vertex, vertex
	}

	// Storage: all backends are local
	var store domain.ChatStore
	switch cfg.StorageBackend {
	case "memory":
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewStore()
	case "sqlite":
		log.Printf("[STORE] Using SQLite storage (dir=%s)", cfg.DataDir)
		s, err := sqlitestore.NewStore(filepath.Join(cfg.DataDir, "agrichat.db"))
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}
		defer s.Close()
		store = s
	default:
		log.Printf("[STORE] Using file storage (dir=%s)", cfg.DataDir)
		s, err := filestore.NewStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("error initializing file store: %v", err)
		}
		store = s
	}

	chatSvc := chat.NewService(store, answerClient, chat.Policy{
		DetachAfterAnswer: cfg.DetachAfterAnswer,
	})
	reportSvc := report.NewService(chatSvc, reportClient)

	if cfg.InboxDir != "" {
		watcher, err := inbox.NewWatcher(chatSvc, cfg.InboxDir)
		if err != nil {
			log.Fatalf("error watching inbox dir: %v", err)
		}
		defer watcher.Stop()
		go watcher.Run(ctx)
	}

	handler := httpadapter.NewServer(chatSvc, reportSvc)

	addr := ":" + cfg.Port
	log.Println("AgriChat API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
