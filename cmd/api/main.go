// Command api serves the statement analysis pipeline over HTTP.
// POST /api/process accepts a multipart "file" upload and responds with
// the report pages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dkomarov/finsight/internal/categorize"
	"github.com/dkomarov/finsight/internal/config"
	"github.com/dkomarov/finsight/internal/ingest"
	"github.com/dkomarov/finsight/internal/intake"
	"github.com/dkomarov/finsight/internal/logger"
	"github.com/dkomarov/finsight/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Verbose {
		log = log.Level(zerolog.DebugLevel)
	}

	ctx := logger.WithContext(context.Background(), log)

	embedder, err := categorize.NewGeminiEmbedder(ctx, cfg.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("create embedder")
	}
	service := intake.NewService(pipeline.NewAnalyzer(embedder))

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: errorHandler,
	})

	app.Post("/api/process", func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing file upload")
		}

		f, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable upload")
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable upload")
		}

		pages, err := service.Process(logger.WithContext(c.Context(), log), header.Filename, content)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": "Файл успешно обработан",
			"pages":   pages,
		})
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	log.Info().Int("port", cfg.Port).Msg("starting api")
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// errorHandler maps pipeline failures onto HTTP statuses: bad uploads and
// format errors are the client's fault, everything else is a 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	var unsupported *intake.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	switch {
	case errors.Is(err, ingest.ErrHeaderNotFound),
		errors.Is(err, ingest.ErrColumnsMissing),
		errors.Is(err, ingest.ErrEmptyTable),
		errors.Is(err, ingest.ErrUnreadableFile):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
