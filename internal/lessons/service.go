package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/llm"
	"github.com/abhisek/masterreview/internal/store"
)

// GenerationFailedMessage is shown to the user when a lesson cannot be produced.
const GenerationFailedMessage = "Content generation failed. Check your connection or API key."

// DefinitionTimeoutMessage is shown in place of a definition that failed to load.
const DefinitionTimeoutMessage = "Timed out."

var (
	// ErrGenerationFailed wraps every provider failure during lesson generation.
	ErrGenerationFailed = errors.New("content generation failed")
	// ErrVisualsUnavailable is returned when no image-capable provider is configured.
	ErrVisualsUnavailable = errors.New("visual aids unavailable: no image provider configured")
)

// maxRecapPoints caps the key points kept from a recap response.
const maxRecapPoints = 5

// Service produces lessons, glossary definitions, visuals and recaps.
type Service struct {
	provider llm.Provider
	lookup   llm.Provider
	images   llm.ImageGenerator
	defs     store.DefinitionRepo
	cfg      Config
	log      *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string
}

// Option configures a Service.
type Option func(*Service)

// WithLookupProvider sets the provider used for definitions and recaps.
// It defaults to the lesson provider.
func WithLookupProvider(p llm.Provider) Option {
	return func(s *Service) { s.lookup = p }
}

// WithImageGenerator enables visual aids.
func WithImageGenerator(g llm.ImageGenerator) Option {
	return func(s *Service) { s.images = g }
}

// WithDefinitionCache persists definitions across runs.
func WithDefinitionCache(repo store.DefinitionRepo) Option {
	return func(s *Service) { s.defs = repo }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a lesson service backed by provider.
func NewService(provider llm.Provider, cfg Config, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		cfg:      cfg,
		log:      zap.NewNop(),
		cache:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lookup == nil {
		s.lookup = provider
	}
	return s
}

// HasVisuals reports whether GenerateVisual can succeed.
func (s *Service) HasVisuals() bool {
	return s.images != nil
}

// GenerateRequest selects the unit to generate and an optional topic to emphasize.
type GenerateRequest struct {
	Unit  curriculum.Unit
	Focus string
}

// Generate asks the provider for a lesson and parses the result.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Lesson, error) {
	id := uuid.NewString()
	ctx = llm.WithPurpose(ctx, "lesson")
	ctx = llm.WithTraceID(ctx, id)

	log := s.log.With(
		zap.String("generation_id", id),
		zap.String("key", req.Unit.Key()),
	)
	if req.Focus != "" {
		log = log.With(zap.String("focus", req.Focus))
	}
	log.Info("generating lesson")

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(PromptInputFor(req.Unit, req.Focus))},
		},
		MaxTokens:      s.cfg.MaxTokens,
		Temperature:    s.cfg.Temperature,
		ThinkingBudget: s.cfg.ThinkingBudget,
	})
	if err != nil {
		log.Warn("lesson generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		log.Warn("lesson generation returned no text")
	}

	lesson := Parse(text, req.Unit.Subject.Name)
	log.Info("lesson generated",
		zap.String("title", lesson.Title),
		zap.Int("sections", len(lesson.Sections)),
		zap.Int("dictionary", len(lesson.Dictionary)),
	)
	return lesson, nil
}

type definitionOutput struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// DefineTerm returns a student-friendly definition of term. lessonContext is
// the surrounding lesson text. Results are cached by lower-cased term.
func (s *Service) DefineTerm(ctx context.Context, term, lessonContext string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return "", errors.New("define: empty term")
	}

	s.mu.RLock()
	def, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return def, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.define(ctx, key, strings.TrimSpace(term), lessonContext)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) define(ctx context.Context, key, term, lessonContext string) (string, error) {
	if s.defs != nil {
		cached, err := s.defs.Get(ctx, key)
		if err != nil {
			s.log.Warn("definition cache read failed", zap.String("term", key), zap.Error(err))
		} else if cached != nil {
			s.remember(key, cached.Definition)
			return cached.Definition, nil
		}
	}

	ctx = llm.WithPurpose(ctx, "define")
	resp, err := s.lookup.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildDefinePrompt(term, lessonContext)},
		},
		Schema:         DefinitionSchema,
		MaxTokens:      s.cfg.LookupMaxTokens,
		ThinkingBudget: s.cfg.LookupThinkingBudget,
	})
	if err != nil {
		return "", fmt.Errorf("define %q: %w", term, err)
	}

	var out definitionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse definition response: %w", err)
	}
	def := strings.TrimSpace(out.Definition)
	if def == "" {
		return "", fmt.Errorf("define %q: empty definition", term)
	}

	if s.defs != nil {
		err := s.defs.Put(context.WithoutCancel(ctx), store.Definition{
			Term:       key,
			Definition: def,
			Model:      resp.Model,
		})
		if err != nil {
			s.log.Warn("definition cache write failed", zap.String("term", key), zap.Error(err))
		}
	}
	s.remember(key, def)
	return def, nil
}

func (s *Service) remember(key, def string) {
	s.mu.Lock()
	s.cache[key] = def
	s.mu.Unlock()
}

// GenerateVisual renders a diagram for a section's visual aid description.
func (s *Service) GenerateVisual(ctx context.Context, description string) (*Visual, error) {
	if s.images == nil {
		return nil, ErrVisualsUnavailable
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("visual: empty description")
	}

	ctx = llm.WithPurpose(ctx, "visual")
	img, err := s.images.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      buildVisualPrompt(description),
		AspectRatio: "16:9",
	})
	if err != nil {
		return nil, fmt.Errorf("generate visual: %w", err)
	}
	return &Visual{Data: img.Data, MIMEType: img.MIMEType, Model: img.Model}, nil
}

// Recap condenses a lesson into a quick-review card.
func (s *Service) Recap(ctx context.Context, lesson *Lesson) (*Recap, error) {
	if lesson == nil {
		return nil, errors.New("recap: nil lesson")
	}
	ctx = llm.WithPurpose(ctx, "recap")

	resp, err := s.lookup.Generate(ctx, llm.Request{
		System: recapSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRecapUserMessage(lesson)},
		},
		Schema:      RecapSchema,
		MaxTokens:   s.cfg.RecapMaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("recap: %w", err)
	}

	var out Recap
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse recap response: %w", err)
	}
	if len(out.KeyPoints) > maxRecapPoints {
		out.KeyPoints = out.KeyPoints[:maxRecapPoints]
	}
	return &out, nil
}
