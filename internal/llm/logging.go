package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/store"
)

// recorder writes one event row and one log line per provider call.
type recorder struct {
	eventRepo store.EventRepo
	provider  string
	log       *zap.Logger
}

func newRecorder(providerName string, repo store.EventRepo, log *zap.Logger) recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return recorder{eventRepo: repo, provider: providerName, log: log}
}

// LoggingProvider is a decorator that records every request as an event
// row and a structured log line.
type LoggingProvider struct {
	recorder
	inner Provider
}

// WithLogging wraps a Provider with event logging. repo may be nil, in
// which case only the log line is written.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *zap.Logger) Provider {
	return &LoggingProvider{recorder: newRecorder(providerName, repo, log), inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		TraceID:     TraceIDFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.record(ctx, data)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// record persists and logs the call. Failing to record never fails the
// request itself.
func (l recorder) record(ctx context.Context, data store.LLMRequestEventData) {
	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if data.TraceID != "" {
		fields = append(fields, zap.String("trace_id", data.TraceID))
	}
	if data.Success {
		l.log.Info("llm request", fields...)
	} else {
		l.log.Warn("llm request failed", append(fields, zap.String("error", data.ErrorMessage))...)
	}

	if l.eventRepo == nil {
		return
	}
	if err := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); err != nil {
		l.log.Warn("failed to record llm event", zap.Error(err))
	}
}

// LoggingImageGenerator records image requests the same way.
type LoggingImageGenerator struct {
	recorder
	inner ImageGenerator
}

// WithImageLogging wraps an ImageGenerator with event logging.
func WithImageLogging(g ImageGenerator, providerName string, repo store.EventRepo, log *zap.Logger) ImageGenerator {
	return &LoggingImageGenerator{recorder: newRecorder(providerName, repo, log), inner: g}
}

func (l *LoggingImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	start := time.Now()
	img, err := l.inner.GenerateImage(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		TraceID:     TraceIDFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Prompt,
	}
	if img != nil {
		data.InputTokens = img.Usage.InputTokens
		data.OutputTokens = img.Usage.OutputTokens
		data.ResponseBody = fmt.Sprintf("[%s, %d bytes]", img.MIMEType, len(img.Data))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.record(ctx, data)
	return img, err
}

func (l *LoggingImageGenerator) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
