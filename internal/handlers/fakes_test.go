package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	authMiddleware "picxury_api/internal/middleware"
	"picxury_api/internal/testutil"
)

const (
	testPhotoServiceID = 5
	testToken          = "token-sara"
)

type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memoryStore) Save(_ context.Context, dir, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	p := dir + "/" + name
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

type fakeVerifier struct {
	uid string
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken != testToken {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: f.uid}, nil
}

type fakeGateway struct {
	validSig bool
	created  []string
}

func (g *fakeGateway) CreateTransaction(orderID string, _ int64, _ *snap.Request) (*snap.Response, error) {
	g.created = append(g.created, orderID)
	return &snap.Response{Token: "snap-" + orderID, RedirectURL: "https://pay.test/" + orderID}, nil
}

func (g *fakeGateway) CheckTransaction(string) (*coreapi.TransactionStatusResponse, error) {
	return &coreapi.TransactionStatusResponse{TransactionStatus: "pending"}, nil
}

func (g *fakeGateway) CancelTransaction(string) error {
	return nil
}

func (g *fakeGateway) VerifySignature(_, _, _, _ string) bool {
	return g.validSig
}

type testServer struct {
	e       *echo.Echo
	db      *gorm.DB
	fixture testutil.Fixture
	store   *memoryStore
	queue   *recordingQueue
	gateway *fakeGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	fixture := testutil.Seed(t, db, testPhotoServiceID)

	s := &testServer{
		e:       echo.New(),
		db:      db,
		fixture: fixture,
		store:   &memoryStore{},
		queue:   &recordingQueue{},
		gateway: &fakeGateway{},
	}
	s.e.Validator = NewRequestValidator()
	s.e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	RegisterRoutes(s.e, Dependencies{
		DB:               db,
		Store:            s.store,
		Verifier:         fakeVerifier{uid: fixture.Photographer.FirebaseUID},
		Queue:            s.queue,
		Payments:         s.gateway,
		AppURL:           "https://picxury.test/",
		CatalogCacheTTL:  time.Minute,
		PhotoServiceID:   testPhotoServiceID,
		MaxLoginAttempts: 10,
		LoginWindow:      time.Minute,
	})
	return s
}

// do sends a request. Bodies that are not readers are encoded as JSON.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, authed bool) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader io.Reader
	contentType := echo.MIMEApplicationJSON
	switch b := body.(type) {
	case nil:
	case multipartBody:
		reader = b.buf
		contentType = b.contentType
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// dataMap re-decodes the response data as a JSON object
func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("encode data: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("data is not an object: %s", raw)
	}
	return out
}
