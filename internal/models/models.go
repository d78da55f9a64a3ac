package models

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Photographer{},
		&Client{},
		&Service{},
		&PhotographerService{},
		&PhotoSessionType{},
		&PhotoSession{},
		&PhotoSessionPhotographerService{},
		&Album{},
		&AlbumPhoto{},
		&Notification{},
		&FinancialMovement{},
		&PaymentSession{},
		&PaymentCallbackHistory{},
		&ScheduledTask{},
		&ScheduledTaskHistory{},
	}
}
