package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/format"
	"picxury_api/internal/services"
)

const (
	albumNotFound      = "Álbum no encontrado."
	ownedAlbumNotFound = "Álbum no encontrado o no pertenece al fotógrafo especificado."
	photoNotFound      = "Foto no encontrada."
)

// AlbumHandler serves album access, photo management and client selection
type AlbumHandler struct {
	albums *services.AlbumService
}

func NewAlbumHandler(albums *services.AlbumService) *AlbumHandler {
	return &AlbumHandler{albums: albums}
}

type albumLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Login lets a client enter an album with email and code
func (h *AlbumHandler) Login(c echo.Context) error {
	var req albumLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	albumID, err := h.albums.Login(c.Request().Context(), req.Email, req.Code, c.RealIP())
	if err != nil {
		return apiError(err, "Correo o código incorrectos.")
	}

	return ok(c, http.StatusOK, "Álbum encontrado.", map[string]interface{}{"albumId": albumID})
}

// Show lists album photos for the photographer with upload progress
func (h *AlbumHandler) Show(c echo.Context) error {
	albumID, err := idParam(c, "albumId", ownedAlbumNotFound)
	if err != nil {
		return err
	}

	overview, err := h.albums.Show(c.Request().Context(), photographerID(c), albumID)
	if err != nil {
		return apiError(err, ownedAlbumNotFound)
	}

	return ok(c, http.StatusOK, "", map[string]interface{}{
		"photos":               newPhotoViews(h.albums.Store(), overview.Photos),
		"min_photos_required":  overview.MinPhotosRequired,
		"current_photos_count": overview.CurrentPhotosCount,
		"photos_remaining":     overview.PhotosRemaining,
	})
}

// SelectPhotos returns everything the client needs to pick photos
func (h *AlbumHandler) SelectPhotos(c echo.Context) error {
	albumID, err := idParam(c, "albumId", albumNotFound)
	if err != nil {
		return err
	}

	view, err := h.albums.SelectPhotos(c.Request().Context(), albumID)
	if err != nil {
		return apiError(err, albumNotFound)
	}

	session := view.Session
	sessionDetails := map[string]interface{}{
		"id":                session.ID,
		"title":             session.Title,
		"date":              dateOnly(session.Date),
		"start_time":        format.ClockTime(session.StartTime),
		"end_time":          format.ClockTime(session.EndTime),
		"department":        session.Department,
		"city":              session.City,
		"address":           session.Address,
		"place_description": session.PlaceDescription,
		"status":            session.Status,
		"total_price":       format.Money(session.TotalPrice),
		"payment_status":    session.PaymentStatus,
	}
	if session.Type != nil {
		sessionDetails["photo_session_type"] = session.Type.Name
	}

	data := map[string]interface{}{
		"session_details":        sessionDetails,
		"services_purchased":     newLineItemViews(session.Services),
		"photos":                 newPhotoViews(h.albums.Store(), view.Photos),
		"selection_requirements": view.Requirements,
	}
	if p := session.Photographer; p != nil {
		data["photographer"] = map[string]interface{}{
			"id":              p.ID,
			"name":            p.FullName(),
			"profile_picture": p.ProfilePicture,
		}
	}
	if cl := session.Client; cl != nil {
		data["client"] = map[string]interface{}{
			"id":        cl.ID,
			"name":      cl.Name,
			"last_name": cl.LastName,
			"email":     cl.Email,
			"phone":     cl.PhoneNumber,
		}
	}

	return ok(c, http.StatusOK, "", data)
}

type photoSelectionRequest struct {
	Action      string  `json:"action" validate:"required,oneof=select deselect"`
	EditionType *string `json:"edition_type" validate:"omitempty,max=100"`
}

// UpdatePhotoSelection selects or deselects one photo
func (h *AlbumHandler) UpdatePhotoSelection(c echo.Context) error {
	albumID, err := idParam(c, "albumId", albumNotFound)
	if err != nil {
		return err
	}
	photoID, err := idParam(c, "photoId", photoNotFound)
	if err != nil {
		return err
	}
	var req photoSelectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	photo, err := h.albums.UpdatePhotoSelection(c.Request().Context(), albumID, photoID, req.Action, req.EditionType)
	if err != nil {
		return apiError(err, photoNotFound)
	}

	return ok(c, http.StatusOK, "Foto actualizada correctamente.", map[string]interface{}{
		"photo_id":     photo.ID,
		"is_selected":  photo.IsSelected,
		"edition_type": photo.EditionType,
	})
}

type albumCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// UpdateCode changes the album access code
func (h *AlbumHandler) UpdateCode(c echo.Context) error {
	albumID, err := idParam(c, "albumId", ownedAlbumNotFound)
	if err != nil {
		return err
	}
	var req albumCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	album, err := h.albums.UpdateCode(c.Request().Context(), photographerID(c), albumID, req.Code)
	if errors.Is(err, services.ErrConflict) {
		return echo.NewHTTPError(http.StatusConflict, "Ya existe un álbum con este código para el mismo cliente.").SetInternal(err)
	}
	if err != nil {
		return apiError(err, ownedAlbumNotFound)
	}

	return ok(c, http.StatusOK, "Código del álbum actualizado correctamente.", map[string]interface{}{
		"id":    album.ID,
		"email": album.Email,
		"code":  album.Code,
	})
}

// UploadPhoto stores one multipart "photo" file in the album
func (h *AlbumHandler) UploadPhoto(c echo.Context) error {
	albumID, err := idParam(c, "albumId", ownedAlbumNotFound)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return apiError(services.NewValidationError("photo", "El campo photo es obligatorio."), "")
	}
	if fileHeader.Size > services.MaxPhotoSize {
		return apiError(services.NewValidationError("photo", "La foto no debe superar 2 MB."), "")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxPhotoSize+1))
	if err != nil {
		return err
	}

	var editionType *string
	if v := c.FormValue("edition_type"); v != "" {
		editionType = &v
	}

	photo, err := h.albums.UploadPhoto(c.Request().Context(), photographerID(c), albumID, data, editionType)
	if err != nil {
		return apiError(err, ownedAlbumNotFound)
	}

	return ok(c, http.StatusCreated, "Foto subida correctamente.", newPhotoView(h.albums.Store(), *photo))
}

type removePhotoRequest struct {
	PhotoID uint `json:"photo_id" query:"photo_id" validate:"required"`
}

// RemovePhoto deletes a photo and its files
func (h *AlbumHandler) RemovePhoto(c echo.Context) error {
	albumID, err := idParam(c, "albumId", ownedAlbumNotFound)
	if err != nil {
		return err
	}
	var req removePhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.albums.RemovePhoto(c.Request().Context(), photographerID(c), albumID, req.PhotoID); err != nil {
		return apiError(err, photoNotFound)
	}

	return ok(c, http.StatusOK, "Foto eliminada del álbum correctamente.", nil)
}
