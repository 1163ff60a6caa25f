package designgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type stubProvider struct {
	mu      sync.Mutex
	ref     string
	err     error
	prompts []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GenerateImage(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
