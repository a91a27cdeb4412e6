package imagestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/google/uuid"
)

var ErrInjected = errors.New("image store unavailable")

// Memory keeps uploaded payload sizes in a map and records every call in
// order. Failures can be injected for tests.
type Memory struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]int
	calls   []string

	// FailUploadAt makes the n-th upload (1-based) fail; 0 disables.
	FailUploadAt int
	// FailDelete lists public ids whose deletion fails.
	FailDelete map[string]bool
	// Lenient stores payloads that are not base64 as raw bytes. Without it
	// uploads are decoded exactly as S3Store decodes them.
	Lenient bool

	uploads int
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL:    baseURL,
		objects:    map[string]int{},
		FailDelete: map[string]bool{},
	}
}

func (m *Memory) Upload(_ context.Context, folder, payload string) (models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.uploads++
	if m.FailUploadAt > 0 && m.uploads == m.FailUploadAt {
		m.calls = append(m.calls, "upload:failed")
		return models.Image{}, ErrInjected
	}

	raw, contentType, err := DecodePayload(payload)
	if err != nil {
		if !m.Lenient {
			m.calls = append(m.calls, "upload:rejected")
			return models.Image{}, fmt.Errorf("decode image: %w", err)
		}
		raw, contentType = []byte(payload), "application/octet-stream"
	}
	key := path.Join(folder, uuid.NewString()+extensionFor(contentType))
	m.objects[key] = len(raw)
	m.calls = append(m.calls, "upload:"+key)
	return models.Image{PublicID: key, URL: fmt.Sprintf("%s/%s", m.baseURL, key)}, nil
}

func (m *Memory) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "delete:"+publicID)
	if m.FailDelete[publicID] {
		return ErrInjected
	}
	// deleting a missing object succeeds, as with S3
	delete(m.objects, publicID)
	return nil
}

func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Memory) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[publicID]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
