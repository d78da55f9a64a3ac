// Package testutil builds in-memory databases and fixtures for package tests
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"picxury_api/internal/models"
)

// NewDB opens a private in-memory SQLite database with every model migrated
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a photographer with a priced catalog and one session type
type Fixture struct {
	Photographer      models.Photographer
	SessionType       models.PhotoSessionType
	ProfessionalPhoto models.PhotographerService
	Photo             models.PhotographerService
	Retouch           models.PhotographerService
	Printed           models.PhotographerService
}

// Seed creates the catalog used by most tests. The plain photo service is
// created with id photoServiceID.
func Seed(t *testing.T, db *gorm.DB, photoServiceID uint) Fixture {
	t.Helper()

	f := Fixture{
		Photographer: models.Photographer{
			FirebaseUID: "uid-" + uuid.NewString(),
			Name:        "Sara",
			LastName:    "Peñaloza",
			Email:       "sara@picxury.com",
			PhoneNumber: "3001234567",
			City:        "Bucaramanga",
			Department:  "Santander",
			Active:      true,
		},
		SessionType: models.PhotoSessionType{Name: "Retrato"},
	}
	mustCreate(t, db, &f.Photographer)
	mustCreate(t, db, &f.SessionType)

	professional := models.Service{Name: "Foto profesional", Category: models.ServiceCategoryProfessionalPhoto}
	photo := models.Service{ID: photoServiceID, Name: "Fotos", Category: models.ServiceCategoryPhoto}
	retouch := models.Service{Name: "Retoque", Category: models.ServiceCategoryEdition}
	printed := models.Service{Name: "Impresión", Category: models.ServiceCategoryOther}
	mustCreate(t, db, &photo)
	mustCreate(t, db, &professional)
	mustCreate(t, db, &retouch)
	mustCreate(t, db, &printed)

	f.ProfessionalPhoto = models.PhotographerService{PhotographerID: f.Photographer.ID, ServiceID: professional.ID, Price: 10000, Service: professional}
	f.Photo = models.PhotographerService{PhotographerID: f.Photographer.ID, ServiceID: photo.ID, Price: 2000, Service: photo}
	f.Retouch = models.PhotographerService{PhotographerID: f.Photographer.ID, ServiceID: retouch.ID, Price: 5000, Service: retouch}
	f.Printed = models.PhotographerService{PhotographerID: f.Photographer.ID, ServiceID: printed.ID, Price: 15000, Service: printed}
	for _, ps := range []*models.PhotographerService{&f.ProfessionalPhoto, &f.Photo, &f.Retouch, &f.Printed} {
		mustCreate(t, db, ps)
	}

	return f
}

// Client creates a client with the given email
func Client(t *testing.T, db *gorm.DB, email string) models.Client {
	t.Helper()
	c := models.Client{Name: "Laura", LastName: "Gómez", Email: email, PhoneNumber: "3109876543"}
	mustCreate(t, db, &c)
	return c
}

// Session creates a session with an album for client and the given line
// items. It uses the first session type in the database, if any.
func Session(t *testing.T, db *gorm.DB, photographerID uint, client models.Client, status models.SessionStatus, lines ...models.PhotoSessionPhotographerService) models.PhotoSession {
	t.Helper()

	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}

	var sessionType models.PhotoSessionType
	db.Order("id").Limit(1).Find(&sessionType)

	s := models.PhotoSession{
		PhotographerID:     photographerID,
		PhotoSessionTypeID: sessionType.ID,
		ClientID:           client.ID,
		Status:             status,
		PaymentStatus:      models.PaymentStatusPending,
		TotalPrice:         total,
		Title:              "Sesión de prueba",
		Date:               time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		StartTime:          "09:00",
		EndTime:            "11:30",
		Department:         "Santander",
		City:               "Bucaramanga",
		Address:            "Calle 45 # 27-10",
	}
	mustCreate(t, db, &s)

	for i := range lines {
		lines[i].PhotoSessionID = s.ID
		mustCreate(t, db, &lines[i])
	}
	s.Services = lines

	album := models.Album{PhotoSessionID: s.ID, Email: client.Email, Code: "123456"}
	mustCreate(t, db, &album)
	s.Album = &album

	return s
}

// Line builds a line item priced at the photographer service's current price
func Line(ps models.PhotographerService, quantity int) models.PhotoSessionPhotographerService {
	return models.PhotoSessionPhotographerService{
		PhotographerServiceID: ps.ID,
		Quantity:              quantity,
		UnitPrice:             ps.Price,
	}
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
