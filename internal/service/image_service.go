package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/metrics"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/repository"
	"github.com/Thanhbi2612/Dreamlens/pkg/image_client"

	"github.com/sirupsen/logrus"
)

// Image listing limits
const (
	DefaultImageListLimit = 20
	MaxImageListLimit     = 100
)

// ImageGenerator renders a prompt to an image
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, negativePrompt string) (*image_client.Image, error)
	Model() string
}

// DreamAnalyzer interprets a dream description
type DreamAnalyzer interface {
	AnalyzeDream(ctx context.Context, prompt string) (string, error)
}

// GenerateInput image generation request
type GenerateInput struct {
	Prompt         string
	DreamID        uint
	NegativePrompt *string
}

// ImageServiceOptions timeouts of the upstream calls
type ImageServiceOptions struct {
	GenerationTimeout time.Duration
	AnalysisTimeout   time.Duration
}

// ImageService image generation orchestration
type ImageService struct {
	imageRepo *repository.GeneratedImageRepository
	generator ImageGenerator
	analyzer  DreamAnalyzer
	limiter   SlotLimiter
	opts      ImageServiceOptions
	logger    logrus.FieldLogger
}

// NewImageService creates the image service
func NewImageService(imageRepo *repository.GeneratedImageRepository, generator ImageGenerator, analyzer DreamAnalyzer, limiter SlotLimiter, opts ImageServiceOptions, logger logrus.FieldLogger) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		generator: generator,
		analyzer:  analyzer,
		limiter:   limiter,
		opts:      opts,
		logger:    logger.WithField("component", "image_service"),
	}
}

// Generate renders the prompt, analyzes the dream and stores the result.
// The caller must have checked that userID owns in.DreamID.
func (s *ImageService) Generate(ctx context.Context, userID uint, in *GenerateInput) (*dto.ImageGenerationResponse, error) {
	model := s.generator.Model()
	log := s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"dream_id": in.DreamID,
		"model":    model,
	})

	negative := ""
	if in.NegativePrompt != nil {
		negative = *in.NegativePrompt
	}

	img, err := s.generate(ctx, model, in.Prompt, negative)
	if err != nil {
		log.WithError(err).Error("image generation failed")
		return nil, errs.Generation("Error generating image", err)
	}

	fullURI := img.DataURI()
	analysis := s.analyze(ctx, log, in.Prompt)

	record := &models.GeneratedImage{
		UserID:         userID,
		DreamID:        &in.DreamID,
		Prompt:         in.Prompt,
		NegativePrompt: in.NegativePrompt,
		ImageURL:       truncate(fullURI, models.MaxImageURLLength),
		ModelName:      model,
		Analysis:       analysis,
	}
	if err := s.imageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save generated image: %w", err)
	}

	log.WithField("image_id", record.ID).Info("image generated")
	return &dto.ImageGenerationResponse{
		ID:             record.ID,
		Prompt:         record.Prompt,
		NegativePrompt: record.NegativePrompt,
		ImageURL:       fullURI,
		Model:          model,
		Analysis:       analysis,
		CreatedAt:      record.CreatedAt,
	}, nil
}

func (s *ImageService) generate(ctx context.Context, model, prompt, negative string) (*image_client.Image, error) {
	if err := s.limiter.Acquire(ctx, model); err != nil {
		metrics.RecordGeneration(model, "rejected", 0)
		return nil, fmt.Errorf("acquire generation slot: %w", err)
	}
	defer s.limiter.Release(context.WithoutCancel(ctx), model)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	start := time.Now()
	img, err := s.generator.Generate(genCtx, prompt, negative)
	if err != nil {
		metrics.RecordGeneration(model, "error", time.Since(start))
		return nil, err
	}
	metrics.RecordGeneration(model, "success", time.Since(start))
	return img, nil
}

// analyze returns nil when the analyzer fails; generation still succeeds
func (s *ImageService) analyze(ctx context.Context, log logrus.FieldLogger, prompt string) *string {
	if s.analyzer == nil {
		return nil
	}

	analysisCtx, cancel := context.WithTimeout(ctx, s.opts.AnalysisTimeout)
	defer cancel()

	analysis, err := s.analyzer.AnalyzeDream(analysisCtx, prompt)
	if err != nil {
		metrics.RecordAnalysisFailure()
		degraded := errs.UpstreamDegraded("dream analysis unavailable", err)
		log.WithError(degraded).Warn("storing image without analysis")
		return nil
	}
	return &analysis
}

// ListMine returns the user's latest images
func (s *ImageService) ListMine(ctx context.Context, userID uint, limit int) ([]dto.GeneratedImageResponse, error) {
	if limit < 1 || limit > MaxImageListLimit {
		return nil, errs.ValidationField("limit", fmt.Sprintf("limit must be between 1 and %d", MaxImageListLimit))
	}

	images, err := s.imageRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return dto.NewGeneratedImageResponses(images), nil
}

// ConnectionStatus reports whether the image API is configured. The token
// itself is never returned.
func ConnectionStatus(cfg *config.ImageConfig) *dto.ConnectionStatusResponse {
	if cfg.Token == "" {
		return &dto.ConnectionStatusResponse{
			Status:  "error",
			Message: "Image API token is not configured",
		}
	}
	if cfg.Model == "" {
		return &dto.ConnectionStatusResponse{
			Status:       "error",
			Message:      "Image model is not configured",
			TokenPresent: true,
		}
	}
	return &dto.ConnectionStatusResponse{
		Status:       "success",
		Message:      "Image API configuration looks good",
		TokenPresent: true,
		TokenLength:  len(cfg.Token),
		ModelPresent: true,
		Model:        cfg.Model,
	}
}

// truncate cuts s to at most n bytes; data URIs are ASCII
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
