package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

// PhotoSessionService drives the photo session lifecycle
type PhotoSessionService struct {
	db *gorm.DB
}

func NewPhotoSessionService(db *gorm.DB) *PhotoSessionService {
	return &PhotoSessionService{db: db}
}

// ClientInput identifies the client a session is booked for
type ClientInput struct {
	Name        string
	LastName    string
	Email       string
	PhoneNumber string
}

// OrderLine is one requested service and its quantity
type OrderLine struct {
	PhotographerServiceID uint
	Quantity              int
}

// BookInput is everything needed to create a session
type BookInput struct {
	PhotographerID     uint
	PhotoSessionTypeID uint
	Source             models.BookingSource
	Title              string
	PaymentStatus      models.PaymentStatus
	Date               time.Time
	StartTime          string
	EndTime            string
	Department         string
	City               string
	Address            string
	PlaceDescription   *string
	Client             ClientInput
	Order              []OrderLine
}

// GeneralInfoInput is the photographer-editable header of a session
type GeneralInfoInput struct {
	Title              string
	Status             models.SessionStatus
	PaymentStatus      models.PaymentStatus
	PhotoSessionTypeID uint
}

// ScheduleInput is the date, time and place of a session
type ScheduleInput struct {
	Date             time.Time
	StartTime        string
	EndTime          string
	Department       string
	City             string
	Address          string
	PlaceDescription *string
}

// SessionStats counts a photographer's sessions by progress
type SessionStats struct {
	Total    int `json:"photoSessions_total"`
	Made     int `json:"photoSessions_made"`
	ToDo     int `json:"photoSessions_to_do"`
	Annulled int `json:"photoSessions_annulled"`
}

// SessionList is the photographer's session board
type SessionList struct {
	Sessions []models.PhotoSession
	Stats    SessionStats
}

func (s *PhotoSessionService) recordExists(db *gorm.DB, model interface{}, where string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Where(where, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func checkTimeRange(verr *ValidationError, start, end string) {
	if end <= start {
		verr.Add("end_time", "La hora de finalización debe ser posterior a la hora de inicio.")
	}
}

// Book creates a session, its purchased lines, its album and, for client
// requests, a Solicitud notification. The total price is computed once from
// current photographer prices and never recomputed.
func (s *PhotoSessionService) Book(ctx context.Context, in BookInput) (*models.PhotoSession, error) {
	db := s.db.WithContext(ctx)
	verr := &ValidationError{}

	if ok, err := s.recordExists(db, &models.Photographer{}, "id = ?", in.PhotographerID); err != nil {
		return nil, err
	} else if !ok {
		verr.Add("photographer_id", "El fotógrafo seleccionado no existe.")
	}
	if ok, err := s.recordExists(db, &models.PhotoSessionType{}, "id = ?", in.PhotoSessionTypeID); err != nil {
		return nil, err
	} else if !ok {
		verr.Add("photo_session_type_id", "El tipo de sesión seleccionado no existe.")
	}
	checkTimeRange(verr, in.StartTime, in.EndTime)
	if len(in.Order) == 0 {
		verr.Add("order", "Debe seleccionar al menos un servicio.")
	}

	lines := make([]models.PhotoSessionPhotographerService, 0, len(in.Order))
	var total float64
	for i, item := range in.Order {
		var ps models.PhotographerService
		err := db.Where("id = ? AND photographer_id = ?", item.PhotographerServiceID, in.PhotographerID).First(&ps).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr.Add(fmt.Sprintf("order.%d.photographer_service_id", i), "El servicio seleccionado no existe.")
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.Quantity <= 0 {
			continue
		}
		total += ps.Price * float64(item.Quantity)
		lines = append(lines, models.PhotoSessionPhotographerService{
			PhotographerServiceID: ps.ID,
			Quantity:              item.Quantity,
			UnitPrice:             ps.Price,
		})
	}
	if verr.HasErrors() {
		return nil, verr
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}

	session := models.PhotoSession{
		PhotographerID:     in.PhotographerID,
		PhotoSessionTypeID: in.PhotoSessionTypeID,
		Status:             in.Source.InitialStatus(),
		PaymentStatus:      paymentStatus,
		TotalPrice:         total,
		Title:              in.Title,
		Date:               in.Date,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		Department:         in.Department,
		City:               in.City,
		Address:            in.Address,
		PlaceDescription:   in.PlaceDescription,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.Where(models.Client{Email: in.Client.Email}).
			Attrs(models.Client{Name: in.Client.Name, LastName: in.Client.LastName, PhoneNumber: in.Client.PhoneNumber}).
			FirstOrCreate(&client).Error
		if err != nil {
			return fmt.Errorf("resolve client: %w", err)
		}
		session.ClientID = client.ID

		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		if session.Title == "" {
			session.Title = fmt.Sprintf("Sesión N.%d", session.ID)
			if err := tx.Model(&session).Update("title", session.Title).Error; err != nil {
				return err
			}
		}

		for i := range lines {
			lines[i].PhotoSessionID = session.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("create line items: %w", err)
			}
		}
		session.Services = lines

		if err := syncSessionLedger(tx, &session); err != nil {
			return err
		}

		if in.Source == models.BookingSourceClient {
			notification := models.Notification{
				PhotographerID: session.PhotographerID,
				PhotoSessionID: session.ID,
				Type:           models.NotificationTypeRequest,
				Title:          "Solicitud de sesión fotográfica",
			}
			if err := tx.Create(&notification).Error; err != nil {
				return fmt.Errorf("create notification: %w", err)
			}
		}

		album, err := createAlbum(tx, session.ID, client.Email)
		if err != nil {
			return err
		}
		session.Album = album
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("photo session booked",
		"session_id", session.ID,
		"photographer_id", session.PhotographerID,
		"status", session.Status,
		"total_price", session.TotalPrice,
	)
	return &session, nil
}

// UpdateGeneralInfo edits title, status, payment status and session type,
// then keeps the session's income movement in line with the payment status
func (s *PhotoSessionService) UpdateGeneralInfo(ctx context.Context, photographerID, sessionID uint, in GeneralInfoInput) (*models.PhotoSession, error) {
	db := s.db.WithContext(ctx)

	session, err := findOwnedSession(db, photographerID, sessionID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if !in.Status.IsUpdatable() {
		verr.Add("status", "El estado seleccionado no es válido.")
	}
	if !in.PaymentStatus.IsValid() {
		verr.Add("payment_status", "El estado de pago seleccionado no es válido.")
	}
	if ok, err := s.recordExists(db, &models.PhotoSessionType{}, "id = ?", in.PhotoSessionTypeID); err != nil {
		return nil, err
	} else if !ok {
		verr.Add("photo_session_type_id", "El tipo de sesión seleccionado no existe.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	session.Title = in.Title
	session.Status = in.Status
	session.PaymentStatus = in.PaymentStatus
	session.PhotoSessionTypeID = in.PhotoSessionTypeID

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(session).Select("title", "status", "payment_status", "photo_session_type_id").Updates(session).Error
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return syncSessionLedger(tx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateDateAndLocation reschedules or relocates a session
func (s *PhotoSessionService) UpdateDateAndLocation(ctx context.Context, photographerID, sessionID uint, in ScheduleInput) (*models.PhotoSession, error) {
	db := s.db.WithContext(ctx)

	session, err := findOwnedSession(db, photographerID, sessionID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	checkTimeRange(verr, in.StartTime, in.EndTime)
	if verr.HasErrors() {
		return nil, verr
	}

	session.Date = in.Date
	session.StartTime = in.StartTime
	session.EndTime = in.EndTime
	session.Department = in.Department
	session.City = in.City
	session.Address = in.Address
	session.PlaceDescription = in.PlaceDescription

	err = db.Model(session).
		Select("date", "start_time", "end_time", "department", "city", "address", "place_description").
		Updates(session).Error
	if err != nil {
		return nil, fmt.Errorf("update session schedule: %w", err)
	}
	return session, nil
}

// ConfirmPhotoSelection is called by the client when done selecting. The
// session moves to Espera and the photographer gets a Selección notification.
func (s *PhotoSessionService) ConfirmPhotoSelection(ctx context.Context, sessionID uint) (*models.PhotoSession, error) {
	db := s.db.WithContext(ctx)

	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		session.Status = models.SessionStatusWaiting
		if err := tx.Model(session).Update("status", session.Status).Error; err != nil {
			return err
		}
		notification := models.Notification{
			PhotographerID: session.PhotographerID,
			PhotoSessionID: session.ID,
			Type:           models.NotificationTypeSelection,
			Title:          "Selección de fotos confirmada",
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, fmt.Errorf("confirm selection: %w", err)
	}
	return session, nil
}

// Cancel annuls a session from any status
func (s *PhotoSessionService) Cancel(ctx context.Context, photographerID, sessionID uint) (*models.PhotoSession, error) {
	return s.setStatus(ctx, photographerID, sessionID, models.SessionStatusAnnulled)
}

// Restore always puts the session back to Por realizar, whatever status it
// had before being annulled
func (s *PhotoSessionService) Restore(ctx context.Context, photographerID, sessionID uint) (*models.PhotoSession, error) {
	return s.setStatus(ctx, photographerID, sessionID, models.SessionStatusToDo)
}

func (s *PhotoSessionService) setStatus(ctx context.Context, photographerID, sessionID uint, status models.SessionStatus) (*models.PhotoSession, error) {
	db := s.db.WithContext(ctx)

	session, err := findOwnedSession(db, photographerID, sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = status
	if err := db.Model(session).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("set session status: %w", err)
	}
	return session, nil
}

// ListForPhotographer returns every accepted session of the photographer,
// newest date first, plus counts by progress
func (s *PhotoSessionService) ListForPhotographer(ctx context.Context, photographerID uint) (*SessionList, error) {
	var sessions []models.PhotoSession
	err := withLineItems(s.db.WithContext(ctx), "").
		Preload("Client", unscoped).
		Preload("Type").
		Preload("Album").
		Preload("Album.Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("photographer_id = ?", photographerID).
		Where("status NOT IN ?", []models.SessionStatus{models.SessionStatusRequested, models.SessionStatusRejected}).
		Order("date desc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var stats SessionStats
	for _, session := range sessions {
		switch {
		case session.Status.IsDone():
			stats.Made++
		case session.Status == models.SessionStatusToDo:
			stats.ToDo++
		case session.Status == models.SessionStatusAnnulled:
			stats.Annulled++
		}
	}
	stats.Total = stats.Made + stats.ToDo + stats.Annulled

	return &SessionList{Sessions: sessions, Stats: stats}, nil
}
