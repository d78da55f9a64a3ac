package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

const testPhotoServiceID = 5

type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (m *memoryStore) Save(_ context.Context, dir, name string, data []byte) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	p, err := objectPath(dir, name)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = data
	return p, nil
}

func (m *memoryStore) Delete(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
	return nil
}

func (m *memoryStore) URL(p string) string {
	return "https://cdn.test/" + p
}

type queuedTask struct {
	name string
	args interface{}
}

type recordingQueue struct {
	tasks []queuedTask
}

func (q *recordingQueue) Enqueue(_ context.Context, taskName string, args interface{}) error {
	q.tasks = append(q.tasks, queuedTask{name: taskName, args: args})
	return nil
}

type countingLimiter struct {
	counts map[string]int64
	err    error
}

func (l *countingLimiter) Count(_ context.Context, key string) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	return l.counts[key], nil
}

func (l *countingLimiter) IncrementWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	if l.counts == nil {
		l.counts = make(map[string]int64)
	}
	l.counts[key]++
	return l.counts[key], nil
}

type fakeGateway struct {
	created   []string
	cancelled []string
	status    *coreapi.TransactionStatusResponse
	checkErr  error
	validSig  bool
}

func (g *fakeGateway) CreateTransaction(orderID string, _ int64, _ *snap.Request) (*snap.Response, error) {
	g.created = append(g.created, orderID)
	return &snap.Response{Token: "token-" + orderID, RedirectURL: "https://pay.test/" + orderID}, nil
}

func (g *fakeGateway) CheckTransaction(string) (*coreapi.TransactionStatusResponse, error) {
	if g.checkErr != nil {
		return nil, g.checkErr
	}
	return g.status, nil
}

func (g *fakeGateway) CancelTransaction(orderID string) error {
	g.cancelled = append(g.cancelled, orderID)
	return nil
}

func (g *fakeGateway) VerifySignature(_, _, _, _ string) bool {
	return g.validSig
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func strPtr(s string) *string {
	return &s
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
