package services

import "picxury_api/internal/models"

// BreakdownItem is the remaining quantity of a non professional-photo
// service the client still has to assign to photos
type BreakdownItem struct {
	ServiceName string `json:"service_name"`
	Quantity    int    `json:"quantity"`
}

// SelectionRequirements tells the client how many photos to pick and which
// edition services are still unassigned
type SelectionRequirements struct {
	TotalToSelect       int             `json:"total_to_select"`
	SelectedPhotosCount int             `json:"selected_photos_count"`
	Breakdown           []BreakdownItem `json:"breakdown"`
}

// ComputeSelectionRequirements derives selection quotas from purchased lines.
// Lines must have PhotographerService.Service loaded. Professional-photo
// lines add to TotalToSelect and every other line becomes a breakdown entry.
// Each photo tagged with an edition type consumes one unit of every entry with
// that name; quantities are not floored at zero.
func ComputeSelectionRequirements(lines []models.PhotoSessionPhotographerService, photos []models.AlbumPhoto) SelectionRequirements {
	req := SelectionRequirements{Breakdown: []BreakdownItem{}}

	for _, line := range lines {
		service := line.PhotographerService.Service
		if service.Category == models.ServiceCategoryProfessionalPhoto {
			req.TotalToSelect += line.Quantity
			continue
		}
		req.Breakdown = append(req.Breakdown, BreakdownItem{
			ServiceName: service.Name,
			Quantity:    line.Quantity,
		})
	}

	for _, photo := range photos {
		if photo.IsSelected {
			req.SelectedPhotosCount++
		}
		if photo.EditionType == nil || *photo.EditionType == "" {
			continue
		}
		for i := range req.Breakdown {
			if req.Breakdown[i].ServiceName == *photo.EditionType {
				req.Breakdown[i].Quantity--
			}
		}
	}

	return req
}

// MinPhotosRequired is the purchased quantity of the line whose photographer
// service points at the catalog photo service, or zero when none was bought.
// Lines must have PhotographerService loaded.
func MinPhotosRequired(lines []models.PhotoSessionPhotographerService, photoServiceID uint) int {
	for _, line := range lines {
		if line.PhotographerService.ServiceID == photoServiceID {
			return line.Quantity
		}
	}
	return 0
}

// PhotosRemaining is how many more photos the photographer has to upload
func PhotosRemaining(minRequired, current int) int {
	if current >= minRequired {
		return 0
	}
	return minRequired - current
}
