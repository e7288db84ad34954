// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"seller_notification_service/internal/domain/mail"
	"seller_notification_service/internal/domain/seller"
)

// MessageRenderer produces the subject and bodies for a seller notification.
type MessageRenderer interface {
	Render(n *seller.Notification) (subject, text, html string, err error)
}

// RunSummary reports the outcome of one batch run.
type RunSummary struct {
	Rows             int // Seller rows read from the source
	Sent             int // Individual messages delivered
	SendFailures     int // Individual messages the sender rejected
	TrackingFailures int // Sends that went out without a usable tracking record
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("rows=%d sent=%d send_failures=%d tracking_failures=%d",
		s.Rows, s.Sent, s.SendFailures, s.TrackingFailures)
}

// NotificationService defines the batch entry point invoked by the scheduler.
type NotificationService interface {
	// RunBatch reads every seller row and issues one tracked send per
	// recipient address. Per-recipient failures are isolated and counted,
	// never aborting the run. The returned error is non-nil only for the
	// fatal cases: the row source being unreachable.
	RunBatch(ctx context.Context) (*RunSummary, error)
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	rowSource   seller.RowSource
	trackingSvc TrackingService
	renderer    MessageRenderer
	mailSender  mail.Sender
	logger      *log.Logger
	senderName  string
	replyTo     string
}

func NewNotificationServiceImpl(
	rs seller.RowSource,
	ts TrackingService,
	renderer MessageRenderer,
	ms mail.Sender,
	logger *log.Logger,
	senderName string,
	replyTo string,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		rowSource:   rs,
		trackingSvc: ts,
		renderer:    renderer,
		mailSender:  ms,
		logger:      logger,
		senderName:  senderName,
		replyTo:     replyTo,
	}
}

// RunBatch executes one notification run over the row source.
func (s *NotificationServiceImpl) RunBatch(ctx context.Context) (*RunSummary, error) {
	s.logger.Println("INFO: Starting seller notification batch run.")

	rows, err := s.rowSource.Rows(ctx)
	if err != nil {
		s.logger.Printf("ERROR: Failed to read seller rows: %v", err)
		return nil, fmt.Errorf("failed to read seller rows: %w", err)
	}

	summary := &RunSummary{Rows: len(rows)}
	if len(rows) == 0 {
		s.logger.Println("INFO: No seller rows to process. Batch run finished.")
		return summary, nil
	}

	for _, row := range rows {
		s.processRow(ctx, row, summary)
	}

	s.logger.Printf("INFO: Batch run finished: %s", summary)
	return summary, nil
}

// processRow sends one notification per recipient address on the row. Every
// failure is isolated to the recipient it occurred for.
func (s *NotificationServiceImpl) processRow(ctx context.Context, row *seller.Notification, summary *RunSummary) {
	subject, text, html, err := s.renderer.Render(row)
	if err != nil {
		s.logger.Printf("ERROR: Failed to render notification for seller %s: %v. Skipping row.", row.SellerID, err)
		summary.SendFailures += len(row.Recipients())
		return
	}

	for _, recipient := range row.Recipients() {
		// Tracking is best-effort: a store failure must never block
		// mail delivery. The message then goes out without a pixel.
		htmlBody := html
		token, err := s.trackingSvc.IssueToken(ctx, recipient, row.SellerID)
		if err != nil {
			s.logger.Printf("WARN: Notification to %s (SellerID: %s) will not be tracked: %v", recipient, row.SellerID, err)
			summary.TrackingFailures++
		} else {
			htmlBody = appendPixel(html, s.trackingSvc.PixelTag(token))
		}

		msg := &mail.Message{
			To:         recipient,
			Subject:    subject,
			TextBody:   text,
			HTMLBody:   htmlBody,
			SenderName: s.senderName,
			ReplyTo:    s.replyTo,
		}
		if err := s.mailSender.Send(ctx, msg); err != nil {
			s.logger.Printf("ERROR: Failed to send notification to %s (SellerID: %s): %v", recipient, row.SellerID, err)
			summary.SendFailures++
			continue
		}
		s.logger.Printf("INFO: Notification sent to %s (SellerID: %s, Result: %s).", recipient, row.SellerID, row.Result)
		summary.Sent++
	}
}

// appendPixel inserts the tracking reference at the end of the HTML body,
// before </body> when present.
func appendPixel(html, pixel string) string {
	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", pixel+"</body>", 1)
	}
	return html + pixel
}
