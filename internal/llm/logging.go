package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
)

// Capture modes for recorded request events.
const (
	// CaptureFull stores prompts and responses verbatim.
	CaptureFull = "full"
	// CaptureMetadata stores message roles and sizes only. Prompts carry
	// the learner's profile and chat text, so deployments that must not
	// keep them at rest use this mode.
	CaptureMetadata = "metadata"
)

// LoggingProvider records every call as an llm request event and logs it.
type LoggingProvider struct {
	inner   Provider
	name    string
	events  store.EventRepo
	log     *logger.Logger
	capture string
}

// WithLogging wraps p. A nil repo only logs. An unknown capture mode is
// treated as CaptureFull.
func WithLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger, capture string) Provider {
	if log == nil {
		log = logger.Nop()
	}
	if capture != CaptureMetadata {
		capture = CaptureFull
	}
	return &LoggingProvider{inner: p, name: name, events: repo, log: log, capture: capture}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: l.describeRequest(req),
	}
	if resp != nil {
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = l.describeResponse(resp)
	}

	fields := []any{"provider", l.name, "model", ev.Model, "purpose", ev.Purpose, "latency_ms", ev.LatencyMs}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, "error", err)...)
	} else {
		l.log.Debug("llm request", append(fields, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)...)
	}

	if l.events != nil {
		// Recorded even when the caller has gone away; a lost event never
		// fails the call.
		if recErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
			l.log.Warn("failed to record llm request event", "error", recErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) describeRequest(req Request) string {
	if l.capture == CaptureFull {
		return renderRequest(req)
	}
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system] %d chars\n", len(req.System))
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s] %d chars\n", m.Role, len(m.Content))
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}
	return b.String()
}

func (l *LoggingProvider) describeResponse(resp *Response) string {
	if l.capture == CaptureFull {
		return string(resp.Content)
	}
	return fmt.Sprintf("%d chars, stop %s", len(resp.Content), resp.StopReason)
}

// renderRequest lays the request out as labelled blocks. The schema is
// named, not dumped: definitions are fixed in code.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}
	return b.String()
}
