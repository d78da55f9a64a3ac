package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

var ErrInvalidSignature = errors.New("invalid payment signature")

// PaymentGatewayClient is the subset of Midtrans used for session payments
type PaymentGatewayClient interface {
	CreateTransaction(orderID string, amount int64, param *snap.Request) (*snap.Response, error)
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, error)
	CancelTransaction(orderID string) error
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

type PaymentService struct {
	db             *gorm.DB
	midtransClient PaymentGatewayClient
	now            func() time.Time
}

func NewPaymentService(db *gorm.DB, midtransClient PaymentGatewayClient) *PaymentService {
	return &PaymentService{
		db:             db,
		midtransClient: midtransClient,
		now:            time.Now,
	}
}

// SessionOrderID builds the gateway order id of a session payment attempt
func SessionOrderID(sessionID uint, at time.Time) string {
	return fmt.Sprintf("photo-session-%d-%d", sessionID, at.Unix())
}

// ParseSessionOrderID extracts the session id from an order id built by
// SessionOrderID
func ParseSessionOrderID(orderID string) (uint, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) != 4 || parts[0] != "photo" || parts[1] != "session" {
		return 0, fmt.Errorf("invalid order id %q", orderID)
	}
	id, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q: %w", orderID, err)
	}
	return uint(id), nil
}

func deactivate(db *gorm.DB, session *models.PaymentSession) {
	if err := db.Model(session).Update("is_active", false).Error; err != nil {
		logger.Log.Errorw("could not deactivate payment session", "order_id", session.OrderID, "error", err)
	}
}

// CheckActiveSession returns the latest active payment attempt of a photo
// session, or nil when there is none
func (s *PaymentService) CheckActiveSession(ctx context.Context, photoSessionID uint) (*models.PaymentSession, error) {
	var existingSession models.PaymentSession
	err := s.db.WithContext(ctx).
		Where("photo_session_id = ? AND is_active = ?", photoSessionID, true).
		Order("created_at desc").
		First(&existingSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existingSession, nil
}

// InitiatePaymentResult holds the result of an initiation attempt
type InitiatePaymentResult struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	IsExisting  bool   `json:"is_existing"`
}

// InitiatePayment starts or resumes the online payment of the session behind
// an album. A pending attempt is reused unless forceNew cancels it first.
func (s *PaymentService) InitiatePayment(ctx context.Context, albumID uint, forceNew bool, finishURL string) (*InitiatePaymentResult, error) {
	db := s.db.WithContext(ctx)

	var album models.Album
	if err := db.First(&album, albumID).Error; err != nil {
		return nil, notFound(err, "album")
	}
	var session models.PhotoSession
	if err := db.Preload("Client", unscoped).First(&session, album.PhotoSessionID).Error; err != nil {
		return nil, notFound(err, "photo session")
	}
	if session.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrPaymentAlreadyMade
	}

	existingSession, err := s.CheckActiveSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if existingSession != nil {
		statusResp, err := s.midtransClient.CheckTransaction(existingSession.OrderID)
		switch {
		case err != nil:
			deactivate(db, existingSession)
		case isSettled(statusResp.TransactionStatus, statusResp.FraudStatus):
			return nil, ErrPaymentAlreadyMade
		case isClosed(statusResp.TransactionStatus):
			deactivate(db, existingSession)
		case forceNew:
			if err := s.midtransClient.CancelTransaction(existingSession.OrderID); err != nil {
				logger.Log.Warnw("could not cancel pending transaction", "order_id", existingSession.OrderID, "error", err)
			}
			deactivate(db, existingSession)
		default:
			var midtransResp snap.Response
			if err := json.Unmarshal(existingSession.ResponseMetadata, &midtransResp); err == nil && midtransResp.Token != "" {
				return &InitiatePaymentResult{
					OrderID:     existingSession.OrderID,
					Token:       midtransResp.Token,
					RedirectURL: midtransResp.RedirectURL,
					IsExisting:  true,
				}, nil
			}
			deactivate(db, existingSession)
		}
	}

	orderID := SessionOrderID(session.ID, s.now())
	amount := int64(session.TotalPrice)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("photo-session-%d", session.ID),
				Name:  session.Title,
				Price: amount,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: finishURL,
		},
	}
	if session.Client != nil {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: session.Client.Name,
			LName: session.Client.LastName,
			Email: session.Client.Email,
			Phone: session.Client.PhoneNumber,
		}
	}

	resp, err := s.midtransClient.CreateTransaction(orderID, amount, req)
	if err != nil {
		return nil, err
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	paymentSession := models.PaymentSession{
		PhotoSessionID:   session.ID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           session.TotalPrice,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	if err := db.Create(&paymentSession).Error; err != nil {
		return nil, fmt.Errorf("store payment session: %w", err)
	}

	return &InitiatePaymentResult{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// CallbackNotification is the part of a Midtrans notification we act on
type CallbackNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

func isSettled(status, fraud string) bool {
	return status == "settlement" || (status == "capture" && fraud != "challenge" && fraud != "deny")
}

func isClosed(status string) bool {
	switch status {
	case "deny", "expire", "cancel", "failure":
		return true
	}
	return false
}

// HandleCallback records a gateway notification and applies it. A settled
// payment marks the session Pagada and books its income; a closed one only
// retires the payment attempt.
func (s *PaymentService) HandleCallback(ctx context.Context, n CallbackNotification, raw json.RawMessage) error {
	db := s.db.WithContext(ctx)

	history := models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		OrderID:        n.OrderID,
		Status:         n.TransactionStatus,
		Metadata:       raw,
	}
	if err := db.Create(&history).Error; err != nil {
		logger.Log.Errorw("could not store payment callback", "order_id", n.OrderID, "error", err)
	}

	if !s.midtransClient.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return ErrInvalidSignature
	}

	sessionID, err := ParseSessionOrderID(n.OrderID)
	if err != nil {
		return NewValidationError("order_id", err.Error())
	}

	var paymentSession models.PaymentSession
	err = db.Where("order_id = ?", n.OrderID).First(&paymentSession).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hasAttempt := err == nil

	switch {
	case isSettled(n.TransactionStatus, n.FraudStatus):
		err := s.SetPaymentStatus(ctx, sessionID, models.PaymentStatusPaid)
		if err != nil {
			return err
		}
		if hasAttempt {
			deactivate(db, &paymentSession)
		}
		logger.Log.Infow("photo session paid online", "session_id", sessionID, "order_id", n.OrderID, "payment_type", n.PaymentType)
	case isClosed(n.TransactionStatus):
		if hasAttempt {
			deactivate(db, &paymentSession)
		}
	}
	return nil
}

// SetPaymentStatus changes a session's payment status and syncs its income
// movement in the same transaction
func (s *PaymentService) SetPaymentStatus(ctx context.Context, sessionID uint, status models.PaymentStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := findSession(tx, sessionID)
		if err != nil {
			return err
		}
		session.PaymentStatus = status
		if err := tx.Model(session).Update("payment_status", status).Error; err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		return syncSessionLedger(tx, session)
	})
}
