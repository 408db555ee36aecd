// Copyright 2025 Pxeba
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	gptmeli "github.com/Pxeba/GptMeliWhatsapp"
	"github.com/Pxeba/GptMeliWhatsapp/ai"
	"github.com/Pxeba/GptMeliWhatsapp/api"
	"github.com/Pxeba/GptMeliWhatsapp/ingestion"
	"github.com/Pxeba/GptMeliWhatsapp/respond"
	"github.com/Pxeba/GptMeliWhatsapp/zapi"
)

func main() {
	app := &cli.App{
		Name:  "gptmeli",
		Usage: "WhatsApp assistant answering questions over Mercado Livre orders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the webhook HTTP service",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the document index directory",
						Value:   "./index_db",
						EnvVars: []string{"INDEX_DB_PATH"},
					},
					&cli.StringFlag{
						Name:    "port",
						Usage:   "HTTP listen port",
						Value:   "8080",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:     "meli-token",
						Usage:    "Mercado Livre access token",
						Required: true,
						EnvVars:  []string{"MELI_ACCESS_TOKEN"},
					},
					&cli.StringFlag{
						Name:     "meli-seller",
						Usage:    "Mercado Livre seller identifier",
						Required: true,
						EnvVars:  []string{"MELI_SELLER_ID"},
					},
					&cli.IntFlag{
						Name:    "window-days",
						Usage:   "Ingestion lookback window in days",
						Value:   60,
						EnvVars: []string{"INGEST_WINDOW_DAYS"},
					},
					&cli.IntFlag{
						Name:    "top-k",
						Usage:   "Number of similarity matches retrieved per question",
						Value:   10,
						EnvVars: []string{"RESPONSE_TOP_K"},
					},
					&cli.StringFlag{
						Name:    "openai-host",
						Usage:   "OpenAI-compatible API host",
						Value:   "https://api.openai.com/v1",
						EnvVars: []string{"OPENAI_HOST"},
					},
					&cli.StringFlag{
						Name:    "openai-key",
						Usage:   "OpenAI API key",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   "text-embedding-3-small",
						EnvVars: []string{"EMBEDDING_MODEL"},
					},
					&cli.StringFlag{
						Name:    "chat-model",
						Usage:   "Chat model name for answer generation",
						Value:   "gpt-4o-mini",
						EnvVars: []string{"CHAT_MODEL"},
					},
					&cli.StringFlag{
						Name:     "zapi-instance",
						Usage:    "Z-API instance identifier",
						Required: true,
						EnvVars:  []string{"ZAPI_INSTANCE_ID"},
					},
					&cli.StringFlag{
						Name:     "zapi-token",
						Usage:    "Z-API instance token",
						Required: true,
						EnvVars:  []string{"ZAPI_INSTANCE_TOKEN"},
					},
					&cli.StringFlag{
						Name:     "zapi-client-token",
						Usage:    "Z-API account client token",
						Required: true,
						EnvVars:  []string{"ZAPI_CLIENT_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "zapi-url",
						Usage:   "Z-API endpoint",
						Value:   zapi.DefaultBaseURL,
						EnvVars: []string{"ZAPI_URL"},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("openai-host")),
		ai.WithToken(c.String("openai-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)

	assistant, err := gptmeli.NewAssistant(c.String("db"), gptmeli.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("initialize assistant: %w", err)
	}
	defer assistant.Close()

	pipeline, err := assistant.NewIngestionPipeline(
		ingestion.WithWindowDays(c.Int("window-days")),
	)
	if err != nil {
		return fmt.Errorf("initialize ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	responder, err := assistant.NewResponder(
		respond.WithTopK(c.Int("top-k")),
	)
	if err != nil {
		return fmt.Errorf("initialize responder: %w", err)
	}

	gateway := zapi.NewClient(zapi.Config{
		BaseURL:       c.String("zapi-url"),
		InstanceID:    c.String("zapi-instance"),
		InstanceToken: c.String("zapi-token"),
		ClientToken:   c.String("zapi-client-token"),
	})

	handler := api.NewHandler(responder, pipeline, gateway, api.IngestDefaults{
		AccessToken: c.String("meli-token"),
		SellerID:    c.String("meli-seller"),
		WindowDays:  c.Int("window-days"),
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	handler.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         ":" + c.String("port"),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting http server", "port", c.String("port"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("run http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown http server", "err", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
