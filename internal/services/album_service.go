package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

const albumCodeAttempts = 10

var albumCodePattern = regexp.MustCompile(`^\d{6}$`)

// newAlbumCode returns a random 6-digit access code
var newAlbumCode = func() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// createAlbum opens the album of a new session. Codes are regenerated until
// no other album of the same email uses them.
func createAlbum(tx *gorm.DB, sessionID uint, email string) (*models.Album, error) {
	for i := 0; i < albumCodeAttempts; i++ {
		code, err := newAlbumCode()
		if err != nil {
			return nil, fmt.Errorf("generate album code: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Album{}).Where("email = ? AND code = ?", email, code).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		album := models.Album{PhotoSessionID: sessionID, Email: email, Code: code}
		if err := tx.Create(&album).Error; err != nil {
			return nil, fmt.Errorf("create album: %w", err)
		}
		return &album, nil
	}
	return nil, fmt.Errorf("create album: no free code after %d attempts: %w", albumCodeAttempts, ErrConflict)
}

// AttemptLimiter counts failed attempts per key inside a time window
type AttemptLimiter interface {
	Count(ctx context.Context, key string) (int64, error)
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, error)
}

// AlbumOptions tunes the album service
type AlbumOptions struct {
	PhotoServiceID   uint
	MaxLoginAttempts int
	LoginWindow      time.Duration
}

// AlbumService manages albums, their photos and the client selection
type AlbumService struct {
	db      *gorm.DB
	store   FileStore
	limiter AttemptLimiter
	opts    AlbumOptions
}

// NewAlbumService builds the service. limiter may be nil to disable login
// throttling.
func NewAlbumService(db *gorm.DB, store FileStore, limiter AttemptLimiter, opts AlbumOptions) *AlbumService {
	return &AlbumService{db: db, store: store, limiter: limiter, opts: opts}
}

// Store exposes the file store so callers can build public URLs
func (s *AlbumService) Store() FileStore {
	return s.store
}

// Login resolves the album a client may enter with email and code. remote
// identifies the caller for throttling.
func (s *AlbumService) Login(ctx context.Context, email, code, remote string) (uint, error) {
	key := "album_login:" + remote
	throttled := s.limiter != nil && s.opts.MaxLoginAttempts > 0

	if throttled {
		n, err := s.limiter.Count(ctx, key)
		if err != nil {
			logger.Log.Warnw("album login limiter unavailable", "error", err)
		} else if n >= int64(s.opts.MaxLoginAttempts) {
			return 0, ErrTooManyAttempts
		}
	}

	var album models.Album
	err := s.db.WithContext(ctx).Where("email = ? AND code = ?", email, code).First(&album).Error
	if err != nil {
		// Only misses count toward the limit
		if throttled && errors.Is(err, gorm.ErrRecordNotFound) {
			if _, lerr := s.limiter.IncrementWithTTL(ctx, key, s.opts.LoginWindow); lerr != nil {
				logger.Log.Warnw("album login limiter unavailable", "error", lerr)
			}
		}
		return 0, notFound(err, "album")
	}
	return album.ID, nil
}

// AlbumOverview is the photographer's view of an album
type AlbumOverview struct {
	Album              models.Album
	Photos             []models.AlbumPhoto
	MinPhotosRequired  int
	CurrentPhotosCount int
	PhotosRemaining    int
}

// Show lists album photos with upload progress against the purchased photo
// quantity
func (s *AlbumService) Show(ctx context.Context, photographerID, albumID uint) (*AlbumOverview, error) {
	db := s.db.WithContext(ctx)

	album, err := findOwnedAlbum(db, photographerID, albumID)
	if err != nil {
		return nil, err
	}

	var photos []models.AlbumPhoto
	if err := db.Where("album_id = ?", album.ID).Order("id asc").Find(&photos).Error; err != nil {
		return nil, err
	}

	var lines []models.PhotoSessionPhotographerService
	err = db.Preload("PhotographerService", unscoped).
		Where("photo_session_id = ?", album.PhotoSessionID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	minRequired := MinPhotosRequired(lines, s.opts.PhotoServiceID)
	return &AlbumOverview{
		Album:              *album,
		Photos:             photos,
		MinPhotosRequired:  minRequired,
		CurrentPhotosCount: len(photos),
		PhotosRemaining:    PhotosRemaining(minRequired, len(photos)),
	}, nil
}

// SelectionView is what the client sees when picking photos
type SelectionView struct {
	Album        models.Album
	Session      models.PhotoSession
	Photos       []models.AlbumPhoto
	Requirements SelectionRequirements
}

// SelectPhotos loads an album for client selection with its quotas
func (s *AlbumService) SelectPhotos(ctx context.Context, albumID uint) (*SelectionView, error) {
	db := s.db.WithContext(ctx)

	var album models.Album
	err := db.Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).First(&album, albumID).Error
	if err != nil {
		return nil, notFound(err, "album")
	}

	var session models.PhotoSession
	err = withLineItems(db, "").
		Preload("Photographer", unscoped).
		Preload("Client", unscoped).
		Preload("Type").
		First(&session, album.PhotoSessionID).Error
	if err != nil {
		return nil, notFound(err, "photo session")
	}

	return &SelectionView{
		Album:        album,
		Session:      session,
		Photos:       album.Photos,
		Requirements: ComputeSelectionRequirements(session.Services, album.Photos),
	}, nil
}

// UpdateCode changes the album access code. The code must not be used by
// another album with the same email.
func (s *AlbumService) UpdateCode(ctx context.Context, photographerID, albumID uint, code string) (*models.Album, error) {
	if !albumCodePattern.MatchString(code) {
		return nil, NewValidationError("code", "El código debe tener exactamente 6 dígitos.")
	}

	db := s.db.WithContext(ctx)
	album, err := findOwnedAlbum(db, photographerID, albumID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = db.Model(&models.Album{}).
		Where("email = ? AND code = ? AND id <> ?", album.Email, code, album.ID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("album code %s already used by %s: %w", code, album.Email, ErrConflict)
	}

	album.Code = code
	if err := db.Model(album).Update("code", code).Error; err != nil {
		return nil, fmt.Errorf("update album code: %w", err)
	}
	return album, nil
}

// Selection actions
const (
	SelectionActionSelect   = "select"
	SelectionActionDeselect = "deselect"
)

// UpdatePhotoSelection selects or deselects a photo. Deselecting always
// clears the edition type. No cap on the number of selected photos applies.
func (s *AlbumService) UpdatePhotoSelection(ctx context.Context, albumID, photoID uint, action string, editionType *string) (*models.AlbumPhoto, error) {
	if action != SelectionActionSelect && action != SelectionActionDeselect {
		return nil, NewValidationError("action", "La acción debe ser select o deselect.")
	}

	db := s.db.WithContext(ctx)

	var photo models.AlbumPhoto
	if err := db.Where("album_id = ? AND id = ?", albumID, photoID).First(&photo).Error; err != nil {
		return nil, notFound(err, "album photo")
	}

	photo.IsSelected = action == SelectionActionSelect
	photo.EditionType = nil
	if photo.IsSelected && editionType != nil && *editionType != "" {
		photo.EditionType = editionType
	}

	err := db.Model(&photo).Updates(map[string]interface{}{
		"is_selected":  photo.IsSelected,
		"edition_type": photo.EditionType,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update photo selection: %w", err)
	}
	return &photo, nil
}

// UploadPhoto stores a validated jpeg/png photo and its thumbnail
func (s *AlbumService) UploadPhoto(ctx context.Context, photographerID, albumID uint, data []byte, editionType *string) (*models.AlbumPhoto, error) {
	processed, err := ProcessPhoto(data)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	album, err := findOwnedAlbum(db, photographerID, albumID)
	if err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("images/albums/%d", album.ID)
	name := uuid.NewString()

	url, err := s.store.Save(ctx, dir, name+"."+processed.Ext, processed.Data)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	thumbURL, err := s.store.Save(ctx, dir+"/thumbs", name+".jpg", processed.Thumbnail)
	if err != nil {
		s.discard(ctx, url)
		return nil, fmt.Errorf("save thumbnail: %w", err)
	}

	if editionType != nil && *editionType == "" {
		editionType = nil
	}
	photo := models.AlbumPhoto{
		AlbumID:      album.ID,
		URL:          url,
		ThumbnailURL: thumbURL,
		EditionType:  editionType,
	}
	if err := db.Create(&photo).Error; err != nil {
		s.discard(ctx, url, thumbURL)
		return nil, fmt.Errorf("create album photo: %w", err)
	}

	logger.Log.Infow("album photo uploaded", "album_id", album.ID, "photo_id", photo.ID, "bytes", len(data))
	return &photo, nil
}

// RemovePhoto deletes a photo and its stored files
func (s *AlbumService) RemovePhoto(ctx context.Context, photographerID, albumID, photoID uint) error {
	db := s.db.WithContext(ctx)

	album, err := findOwnedAlbum(db, photographerID, albumID)
	if err != nil {
		return err
	}

	var photo models.AlbumPhoto
	if err := db.Where("album_id = ? AND id = ?", album.ID, photoID).First(&photo).Error; err != nil {
		return notFound(err, "album photo")
	}

	for _, p := range []string{photo.URL, photo.ThumbnailURL} {
		if err := s.store.Delete(ctx, p); err != nil {
			return fmt.Errorf("delete photo file: %w", err)
		}
	}

	if err := db.Delete(&photo).Error; err != nil {
		return fmt.Errorf("delete album photo: %w", err)
	}
	return nil
}

func (s *AlbumService) discard(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			logger.Log.Warnw("could not discard stored file", "path", p, "error", err)
		}
	}
}
