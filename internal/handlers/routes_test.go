package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"picxury_api/internal/models"
	"picxury_api/internal/tasks"
	"picxury_api/internal/testutil"
)

func bookingBody(f testutil.Fixture, source string) map[string]interface{} {
	return map[string]interface{}{
		"photographer_id":       f.Photographer.ID,
		"photo_session_type_id": f.SessionType.ID,
		"source":                source,
		"title":                 "Retratos en el parque",
		"date":                  "2025-04-02",
		"start_time":            "09:00",
		"end_time":              "11:00",
		"department":            "Santander",
		"city":                  "Bucaramanga",
		"address":               "Parque San Pío",
		"client_email":          "laura@example.com",
		"client_name":           "Laura",
		"client_last_name":      "Gómez",
		"client_phone":          "3109876543",
		"order": []map[string]interface{}{
			{"photographer_service_id": f.ProfessionalPhoto.ID, "quantity": 2},
			{"photographer_service_id": f.Retouch.ID, "quantity": 1},
		},
	}
}

func TestBookPhotoSession(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(body map[string]interface{})
		wantStatus int
		wantField  string
		wantState  models.SessionStatus
	}{
		{
			name:       "client request",
			mutate:     func(map[string]interface{}) {},
			wantStatus: http.StatusCreated,
			wantState:  models.SessionStatusRequested,
		},
		{
			name:       "photographer booking",
			mutate:     func(b map[string]interface{}) { b["source"] = "photographer" },
			wantStatus: http.StatusCreated,
			wantState:  models.SessionStatusToDo,
		},
		{
			name:       "missing client email",
			mutate:     func(b map[string]interface{}) { delete(b, "client_email") },
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "client_email",
		},
		{
			name: "zero quantity",
			mutate: func(b map[string]interface{}) {
				b["order"] = []map[string]interface{}{{"photographer_service_id": 1, "quantity": 0}}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "order.0.quantity",
		},
		{
			name:       "bad clock time",
			mutate:     func(b map[string]interface{}) { b["start_time"] = "9am" },
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body := bookingBody(s.fixture, "client")
			tt.mutate(body)

			rec, resp := s.do(t, http.MethodPost, "/api/photo-sessions", body, false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantField != "" {
				if _, ok := resp.Errors[tt.wantField]; !ok {
					t.Fatalf("errors = %v; want key %q", resp.Errors, tt.wantField)
				}
				return
			}

			var session models.PhotoSession
			if err := s.db.Last(&session).Error; err != nil {
				t.Fatalf("load session: %v", err)
			}
			if session.Status != tt.wantState {
				t.Errorf("status = %q; want %q", session.Status, tt.wantState)
			}
			if session.TotalPrice != 25000 {
				t.Errorf("total_price = %v; want 25000", session.TotalPrice)
			}
		})
	}
}

func TestAlbumLogin(t *testing.T) {
	s := newTestServer(t)
	client := testutil.Client(t, s.db, "laura@example.com")
	session := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusSelection)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{name: "valid code", body: map[string]string{"email": "laura@example.com", "code": "123456"}, wantStatus: http.StatusOK},
		{name: "wrong code", body: map[string]string{"email": "laura@example.com", "code": "654321"}, wantStatus: http.StatusNotFound},
		{name: "short code", body: map[string]string{"email": "laura@example.com", "code": "123"}, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.do(t, http.MethodPost, "/api/album", tt.body, false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got := dataMap(t, resp)["albumId"]; got != float64(session.Album.ID) {
				t.Errorf("albumId = %v; want %d", got, session.Album.ID)
			}
		})
	}
}

func TestSelectionFlow(t *testing.T) {
	s := newTestServer(t)
	client := testutil.Client(t, s.db, "laura@example.com")
	session := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusSelection,
		testutil.Line(s.fixture.ProfessionalPhoto, 4),
		testutil.Line(s.fixture.Retouch, 3),
	)
	retouch := "Retoque"
	photo := models.AlbumPhoto{AlbumID: session.Album.ID, URL: "albums/a.jpg", ThumbnailURL: "albums/thumbs/a.jpg"}
	s.db.Create(&photo)

	path := fmt.Sprintf("/api/album/%d/photos/%d/select", session.Album.ID, photo.ID)
	rec, resp := s.do(t, http.MethodPut, path, map[string]interface{}{"action": "select", "edition_type": retouch}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d (%s)", rec.Code, rec.Body.String())
	}
	selected := dataMap(t, resp)
	if selected["photo_id"] != float64(photo.ID) || selected["is_selected"] != true || selected["edition_type"] != retouch {
		t.Errorf("select data = %v; want photo_id, is_selected and edition_type", selected)
	}

	rec, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/album/%d/photos/select", session.Album.ID), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("select view status = %d (%s)", rec.Code, rec.Body.String())
	}
	reqs := dataMap(t, resp)["selection_requirements"].(map[string]interface{})
	if reqs["total_to_select"] != float64(4) {
		t.Errorf("total_to_select = %v; want 4", reqs["total_to_select"])
	}
	if reqs["selected_photos_count"] != float64(1) {
		t.Errorf("selected_photos_count = %v; want 1", reqs["selected_photos_count"])
	}
	breakdown := reqs["breakdown"].([]interface{})
	if len(breakdown) != 1 || breakdown[0].(map[string]interface{})["quantity"] != float64(2) {
		t.Errorf("breakdown = %v; want Retoque with 2 left", breakdown)
	}

	rec, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/photo-sessions/%d/confirm-photo-selection", session.ID), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d (%s)", rec.Code, rec.Body.String())
	}
	var reloaded models.PhotoSession
	s.db.First(&reloaded, session.ID)
	if reloaded.Status != models.SessionStatusWaiting {
		t.Errorf("status = %q; want %q", reloaded.Status, models.SessionStatusWaiting)
	}
}

func TestPhotographerRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	other := models.Photographer{FirebaseUID: "uid-other", Name: "Otro", Active: true}
	s.db.Create(&other)

	tests := []struct {
		name       string
		path       string
		authed     bool
		wantStatus int
	}{
		{name: "no token", path: fmt.Sprintf("/api/photographer/%d/photo-sessions", s.fixture.Photographer.ID), wantStatus: http.StatusUnauthorized},
		{name: "own sessions", path: fmt.Sprintf("/api/photographer/%d/photo-sessions", s.fixture.Photographer.ID), authed: true, wantStatus: http.StatusOK},
		{name: "other photographer", path: fmt.Sprintf("/api/photographer/%d/clients", other.ID), authed: true, wantStatus: http.StatusForbidden},
		{name: "public catalog", path: fmt.Sprintf("/api/photographer/%d/services", s.fixture.Photographer.ID), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, http.MethodGet, tt.path, nil, tt.authed)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestUpdateAlbumCode(t *testing.T) {
	s := newTestServer(t)
	client := testutil.Client(t, s.db, "laura@example.com")
	first := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusToDo)
	second := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusToDo)
	s.db.Model(second.Album).Update("code", "654321")

	tests := []struct {
		name       string
		albumID    uint
		code       string
		wantStatus int
	}{
		{name: "taken by sibling album", albumID: first.Album.ID, code: "654321", wantStatus: http.StatusConflict},
		{name: "own code", albumID: second.Album.ID, code: "654321", wantStatus: http.StatusOK},
		{name: "fresh code", albumID: first.Album.ID, code: "111222", wantStatus: http.StatusOK},
		{name: "not numeric", albumID: first.Album.ID, code: "12ab56", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("/api/photographer/%d/albums/%d/update-code", s.fixture.Photographer.ID, tt.albumID)
			rec, _ := s.do(t, http.MethodPut, path, map[string]string{"code": tt.code}, true)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestUploadAndRemovePhoto(t *testing.T) {
	s := newTestServer(t)
	client := testutil.Client(t, s.db, "laura@example.com")
	session := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusUploading)
	base := fmt.Sprintf("/api/photographer/%d/album/%d/photos", s.fixture.Photographer.ID, session.Album.ID)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("photo", "photo.png")
	part.Write(pngBytes(t, 40, 30))
	w.WriteField("edition_type", "Retoque")
	w.Close()

	rec, resp := s.do(t, http.MethodPost, base, multipartBody{buf: &buf, contentType: w.FormDataContentType()}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d (%s)", rec.Code, rec.Body.String())
	}
	if len(s.store.files) != 2 {
		t.Fatalf("stored files = %d; want photo and thumbnail", len(s.store.files))
	}
	photoID := dataMap(t, resp)["id"].(float64)

	rec, _ = s.do(t, http.MethodDelete, base, map[string]interface{}{"photo_id": photoID}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d (%s)", rec.Code, rec.Body.String())
	}
	if len(s.store.files) != 0 {
		t.Errorf("stored files after remove = %d; want 0", len(s.store.files))
	}

	rec, _ = s.do(t, http.MethodDelete, base, map[string]interface{}{"photo_id": photoID}, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d; want 404", rec.Code)
	}
}

func TestContactUs(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantQueued int
	}{
		{
			name:       "queued",
			body:       map[string]string{"name": "Laura", "email": "laura@example.com", "subject": "Bodas", "message": "¿Tienen fechas en junio?"},
			wantStatus: http.StatusOK,
			wantQueued: 1,
		},
		{
			name:       "invalid email",
			body:       map[string]string{"name": "Laura", "email": "laura", "subject": "Bodas", "message": "Hola"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec, _ := s.do(t, http.MethodPost, "/api/contact-us", tt.body, false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if len(s.queue.tasks) != tt.wantQueued {
				t.Fatalf("queued = %d; want %d", len(s.queue.tasks), tt.wantQueued)
			}
			if tt.wantQueued == 0 {
				return
			}
			task := s.queue.tasks[0]
			if task.name != models.TaskSendContactMessage {
				t.Errorf("task = %q; want %q", task.name, models.TaskSendContactMessage)
			}
			if args, ok := task.args.(tasks.ContactMessageArgs); !ok || args.Email != "laura@example.com" {
				t.Errorf("args = %#v", task.args)
			}
		})
	}
}

func TestNotificationListQueuesMarkRead(t *testing.T) {
	s := newTestServer(t)
	client := testutil.Client(t, s.db, "laura@example.com")
	session := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusWaiting)
	s.db.Create(&models.Notification{
		PhotographerID: s.fixture.Photographer.ID,
		PhotoSessionID: session.ID,
		Type:           models.NotificationTypeSelection,
		Title:          "Selección de fotos confirmada",
	})

	rec, resp := s.do(t, http.MethodGet, fmt.Sprintf("/api/photographer/%d/notifications", s.fixture.Photographer.ID), nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if items, _ := resp.Data.([]interface{}); len(items) != 1 {
		t.Fatalf("notifications = %v; want 1", resp.Data)
	}
	if len(s.queue.tasks) != 1 || s.queue.tasks[0].name != models.TaskMarkNotificationsRead {
		t.Errorf("queued = %#v; want one %s task", s.queue.tasks, models.TaskMarkNotificationsRead)
	}
}

func TestFinancialMovements(t *testing.T) {
	s := newTestServer(t)
	base := fmt.Sprintf("/api/photographer/%d/financial-movements", s.fixture.Photographer.ID)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{name: "income", body: map[string]interface{}{"type": "ingreso", "category": "venta", "amount": 150000}, wantStatus: http.StatusCreated},
		{name: "zero expense", body: map[string]interface{}{"type": "gasto", "category": "otros", "amount": 0}, wantStatus: http.StatusCreated},
		{name: "missing amount", body: map[string]interface{}{"type": "gasto", "category": "otros"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown type", body: map[string]interface{}{"type": "regalo", "category": "otros", "amount": 10}, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, http.MethodPost, base, tt.body, true)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	rec, _ := s.do(t, http.MethodGet, base, nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview status = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPaymentCallbackRejectsBadSignature(t *testing.T) {
	s := newTestServer(t)
	body := `{"order_id":"photo-session-1-1700000000","status_code":"200","gross_amount":"25000.00","signature_key":"nope","transaction_status":"settlement"}`

	rec, _ := s.do(t, http.MethodPost, "/api/payments/midtrans/callback", body, false)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want 403 (%s)", rec.Code, rec.Body.String())
	}

	var count int64
	s.db.Model(&models.PaymentCallbackHistory{}).Count(&count)
	if count != 1 {
		t.Errorf("callback history rows = %d; want 1", count)
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/photo-session-types", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("types status = %d (%s)", rec.Code, rec.Body.String())
	}
	if items, _ := resp.Data.([]interface{}); len(items) != 1 {
		t.Errorf("types = %v; want 1", resp.Data)
	}

	rec, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/photographer/%d/services", s.fixture.Photographer.ID), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("services status = %d (%s)", rec.Code, rec.Body.String())
	}
	if offers, _ := dataMap(t, resp)["services"].([]interface{}); len(offers) != 4 {
		t.Errorf("services = %d; want 4", len(offers))
	}

	rec, _ = s.do(t, http.MethodGet, "/api/photographer/9999/services", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown photographer status = %d; want 404", rec.Code)
	}
}

func TestPaymentCallbackSettlesSession(t *testing.T) {
	s := newTestServer(t)
	s.gateway.validSig = true
	client := testutil.Client(t, s.db, "laura@example.com")
	session := testutil.Session(t, s.db, s.fixture.Photographer.ID, client, models.SessionStatusToDo,
		testutil.Line(s.fixture.ProfessionalPhoto, 2),
	)
	body := fmt.Sprintf(`{"order_id":"photo-session-%d-1700000000","status_code":"200","gross_amount":"20000.00","signature_key":"ok","transaction_status":"settlement"}`, session.ID)

	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, http.MethodPost, "/api/payments/midtrans/callback", body, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
	}

	var reloaded models.PhotoSession
	s.db.First(&reloaded, session.ID)
	if reloaded.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment_status = %q; want %q", reloaded.PaymentStatus, models.PaymentStatusPaid)
	}
	var movements int64
	s.db.Model(&models.FinancialMovement{}).Where("photo_session_id = ?", session.ID).Count(&movements)
	if movements != 1 {
		t.Errorf("income movements = %d; want 1", movements)
	}
}
