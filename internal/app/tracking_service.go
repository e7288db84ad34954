// internal/app/tracking_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"seller_notification_service/internal/domain/tracking"
	idb "seller_notification_service/internal/infra/database" // Alias for repository errors

	"github.com/google/uuid"
)

// ErrStorageUnavailable is reported when the tracking store cannot persist a
// new record. Callers must treat the notification as not reliably trackable,
// but must never block mail delivery on tracking infrastructure.
var ErrStorageUnavailable = fmt.Errorf("tracking store unavailable")

// ActionOpen is the only callback action that mutates tracking state.
// Any other value (or a missing value) is a no-op.
const ActionOpen = "open"

// pixelGIF is the fixed callback response body: a 1x1 transparent GIF.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

// OpenRequest is the explicit value form of an inbound tracking callback.
type OpenRequest struct {
	Token  string // "id" query parameter
	Action string // "action" query parameter, expected literal "open"
}

// OpenResponse is what the callback endpoint writes back. Whatever branch the
// recorder takes, the remote client always gets a 200-class success shape.
type OpenResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// TrackingService mints tracking tokens, builds the pixel markup embedded in
// outgoing mail, and records open callbacks against the tracking store.
type TrackingService interface {
	// IssueToken mints a globally-unique token and synchronously appends a
	// fresh tracking record for the recipient.
	IssueToken(ctx context.Context, recipientEmail, sellerID string) (string, error)
	// PixelTag wraps the callback URL for a token in an invisible image
	// reference suitable for appending to an HTML message body.
	PixelTag(token string) string
	// RecordOpen applies one callback hit to the matching record and
	// returns the placeholder response to serve.
	RecordOpen(ctx context.Context, req OpenRequest) OpenResponse
}

// TrackingServiceImpl implements the TrackingService interface.
type TrackingServiceImpl struct {
	trackRepo tracking.Repository
	baseURL   string // Public base URL of the callback endpoint, no trailing slash
	logger    *log.Logger
}

func NewTrackingServiceImpl(repo tracking.Repository, baseURL string, logger *log.Logger) *TrackingServiceImpl {
	return &TrackingServiceImpl{
		trackRepo: repo,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// IssueToken mints a token and appends the corresponding tracking record.
func (s *TrackingServiceImpl) IssueToken(ctx context.Context, recipientEmail, sellerID string) (string, error) {
	token := uuid.NewString()
	rec := &tracking.Record{
		Token:          token,
		RecipientEmail: recipientEmail,
		SellerID:       sellerID,
		SentAt:         time.Now(),
		Opened:         false,
		ViewCount:      0,
	}
	if err := s.trackRepo.Create(ctx, rec); err != nil {
		s.logger.Printf("ERROR: Failed to persist tracking record for recipient %s: %v", recipientEmail, err)
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.logger.Printf("INFO: Issued tracking token %s for recipient %s (SellerID: %s)", token, recipientEmail, sellerID)
	return token, nil
}

// CallbackURL builds the open-callback URL carrying the token.
func (s *TrackingServiceImpl) CallbackURL(token string) string {
	return fmt.Sprintf("%s/track?id=%s&action=%s", s.baseURL, token, ActionOpen)
}

// PixelTag returns the invisible 1x1 image reference for the token.
func (s *TrackingServiceImpl) PixelTag(token string) string {
	return fmt.Sprintf(`<img src="%s" width="1" height="1" style="display:none" alt="" />`, s.CallbackURL(token))
}

// RecordOpen is the open-recorder state machine. The record has two states,
// Unopened and Opened: the first hit for a token takes the Unopened->Opened
// edge exactly once; every later hit (repeat opens, prefetches, proxy
// re-fetches) increments the view counter. Unknown tokens and unexpected
// actions are no-ops. The returned response is always success-shaped.
func (s *TrackingServiceImpl) RecordOpen(ctx context.Context, req OpenRequest) OpenResponse {
	resp := placeholderResponse()

	if req.Action != ActionOpen || req.Token == "" {
		s.logger.Printf("INFO: Ignoring tracking callback with action %q and token %q.", req.Action, req.Token)
		return resp
	}

	_, err := s.trackRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if err == idb.ErrRecordNotFound {
			s.logger.Printf("INFO: Tracking callback for unknown token %s. No record updated.", req.Token)
			return resp
		}
		s.logger.Printf("ERROR: Failed to look up tracking record for token %s: %v", req.Token, err)
		return degradedResponse()
	}

	transitioned, err := s.trackRepo.MarkOpenedIfUnopened(ctx, req.Token, time.Now())
	if err != nil {
		s.logger.Printf("ERROR: Failed first-open transition for token %s: %v", req.Token, err)
		return degradedResponse()
	}
	if transitioned {
		s.logger.Printf("INFO: First open recorded for token %s.", req.Token)
		return resp
	}

	// Already opened, or a racing hit lost the first-open transition:
	// either way this hit counts as an additional view.
	if err := s.trackRepo.IncrementViews(ctx, req.Token); err != nil {
		s.logger.Printf("ERROR: Failed to increment views for token %s: %v", req.Token, err)
		return degradedResponse()
	}
	s.logger.Printf("INFO: Additional view recorded for token %s.", req.Token)
	return resp
}

func placeholderResponse() OpenResponse {
	return OpenResponse{
		Status:      200,
		ContentType: "image/gif",
		Body:        pixelGIF,
	}
}

// degradedResponse keeps internal failures invisible to the remote client:
// still a 200 so mail clients neither retry nor render a broken image.
func degradedResponse() OpenResponse {
	return OpenResponse{
		Status:      200,
		ContentType: "text/plain",
		Body:        []byte("ok"),
	}
}
