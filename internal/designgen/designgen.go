// Package designgen is the boundary to the AI image generator used for custom
// designs. It owns the per-user generation ledger and turns every provider
// failure into a message a shopper can act on.
package designgen

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultRateLimit = 3
	DefaultWindow    = 24 * time.Hour

	MessageGenerationFailed = "La IA no pudo generar una imagen en este momento."
	MessagePolicyBlocked    = "Tu idea fue bloqueada por políticas de contenido de la IA. Intenta con otra descripción."
	MessageEmptyPrompt      = "Escribe una descripción para generar tu diseño."

	reasonSnippetLength = 120
)

// Provider produces one image for a fully composed prompt. The returned
// reference is a data URI or an HTTPS URL.
type Provider interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Result is a successful generation.
type Result struct {
	// ID identifies the generation event. Two results never share an ID,
	// even for byte-identical prompts.
	ID           uuid.UUID
	ImageRef     string
	ThumbnailRef string
	Prompt       string
	GeneratedAt  time.Time
}

// NoImageError is returned by providers that answered successfully but
// without an image, carrying whatever text the model sent instead.
type NoImageError struct {
	Reason string
}

func (e *NoImageError) Error() string {
	if e.Reason == "" {
		return "provider returned no image"
	}
	return fmt.Sprintf("provider returned no image: %s", e.Reason)
}

// RateLimitMessage is the shopper-facing text for an exhausted generation window.
func RateLimitMessage(limit int, window time.Duration) string {
	return fmt.Sprintf(
		"Has alcanzado el límite de %d diseños por IA en las últimas %d horas. Si necesitas ayuda adicional con tu diseño, por favor contáctanos por WhatsApp.",
		limit, int(window/time.Hour),
	)
}

// noImageMessage picks the message for a provider answer that carried text but no image.
func noImageMessage(reason string) string {
	reason = strings.TrimSpace(reason)
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "block"), strings.Contains(lower, "safety"), strings.Contains(lower, "policy"):
		return MessagePolicyBlocked
	case reason == "", lower == "unknown":
		return MessageGenerationFailed
	}
	if utf8.RuneCountInString(reason) > reasonSnippetLength {
		reason = string([]rune(reason)[:reasonSnippetLength]) + "..."
	}
	return "La IA tuvo un problema: " + reason
}
