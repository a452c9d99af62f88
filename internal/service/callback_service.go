package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/monitoring"
	"fiscal-payment-bridge/pkg/apperror"

	"github.com/rs/zerolog"
)

// dealIDPlaceholder in a webhook URL selects the generic-webhook
// notification target.
const dealIDPlaceholder = "{{ID}}"

// notifyTarget is the single resolved notification destination for a
// settled bill.
type notifyTarget struct {
	kind string // "webhook", "crm" or "none"
	url  string // substituted webhook URL (webhook)
	base string // CRM REST base (crm)
}

// CallbackServiceImpl implements ports.CallbackService.
type CallbackServiceImpl struct {
	billRepo      ports.BillRepository
	logRepo       ports.IntegrationLogRepository
	notifier      ports.Notifier
	notifyTimeout time.Duration
	log           zerolog.Logger
}

// NewCallbackService creates a new CallbackServiceImpl.
func NewCallbackService(
	billRepo ports.BillRepository,
	logRepo ports.IntegrationLogRepository,
	notifier ports.Notifier,
	notifyTimeout time.Duration,
	log zerolog.Logger,
) *CallbackServiceImpl {
	return &CallbackServiceImpl{
		billRepo:      billRepo,
		logRepo:       logRepo,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		log:           log,
	}
}

// ProcessCallback reconciles one gateway settlement callback: authorize
// via the (external id, secret) pair, notify the CRM exactly once and
// flip the bill to paid only after a confirmed notification.
func (s *CallbackServiceImpl) ProcessCallback(ctx context.Context, externalID, secret string) (*ports.CallbackResult, error) {
	if externalID == "" || secret == "" {
		return nil, apperror.ErrMissingCallbackParams()
	}

	settlement, err := s.billRepo.GetForSettlement(ctx, externalID, secret)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load bill: %w", err))
	}
	if settlement == nil {
		monitoring.CallbacksProcessed.WithLabelValues("not_found").Inc()
		return nil, apperror.ErrBillNotFound()
	}

	if settlement.IsPaid() {
		monitoring.CallbacksProcessed.WithLabelValues("already_processed").Inc()
		s.log.Info().Str("external_id", externalID).Msg("callback for settled bill ignored")
		return &ports.CallbackResult{AlreadyProcessed: true, ExternalID: externalID}, nil
	}

	s.appendLog(ctx, &domain.IntegrationLog{
		LogType:    domain.LogTypeCallbackReceived,
		MemberID:   settlement.MemberID,
		DealID:     strconv.FormatInt(settlement.DealID, 10),
		ExternalID: externalID,
		Status:     "received",
	})

	target := resolveTarget(settlement)
	if err := s.notify(ctx, settlement, target); err != nil {
		monitoring.CallbacksProcessed.WithLabelValues("notify_failed").Inc()
		return nil, apperror.ErrNotificationFailed(err)
	}

	updated, err := s.billRepo.MarkPaid(ctx, settlement.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark bill paid: %w", err))
	}
	if !updated {
		// A concurrent callback won the transition after our lookup.
		monitoring.CallbacksProcessed.WithLabelValues("already_processed").Inc()
		s.log.Info().Str("external_id", externalID).Msg("bill settled concurrently")
		return &ports.CallbackResult{AlreadyProcessed: false, ExternalID: externalID}, nil
	}

	monitoring.CallbacksProcessed.WithLabelValues("processed").Inc()
	s.log.Info().
		Str("external_id", externalID).
		Int64("bill_id", settlement.ID).
		Msg("payment settled")
	return &ports.CallbackResult{ExternalID: externalID}, nil
}

// resolveTarget picks the one notification destination for a bill. A
// webhook URL carrying the deal-id placeholder wins; otherwise the CRM
// pay-payment endpoint is derived from the part of the webhook URL
// before "/rest/".
func resolveTarget(settlement *domain.BillSettlement) notifyTarget {
	webhookURL := ""
	if settlement.WebhookURL != nil {
		webhookURL = *settlement.WebhookURL
	}

	if strings.Contains(webhookURL, dealIDPlaceholder) {
		url := strings.ReplaceAll(webhookURL, dealIDPlaceholder, strconv.FormatInt(settlement.DealID, 10))
		return notifyTarget{kind: "webhook", url: url}
	}

	if settlement.PaymentID != 0 {
		base, _, found := strings.Cut(webhookURL, "/rest/")
		if found && base != "" {
			return notifyTarget{kind: "crm", base: base}
		}
	}

	return notifyTarget{kind: "none"}
}

func (s *CallbackServiceImpl) notify(ctx context.Context, settlement *domain.BillSettlement, target notifyTarget) error {
	if target.kind == "none" {
		return fmt.Errorf("no notification target for member %s", settlement.MemberID)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	var (
		err      error
		respType domain.LogType
	)
	switch target.kind {
	case "webhook":
		respType = domain.LogTypeWebhookResponse
		reqData := fmt.Sprintf(`{"url":%q}`, target.url)
		s.auditNotify(ctx, settlement, domain.LogTypeWebhookRequest, reqData, "sent", nil)
		err = s.notifier.CallWebhook(notifyCtx, target.url)
	case "crm":
		respType = domain.LogTypeCRMResponse
		reqData := fmt.Sprintf(`{"base":%q,"payment_id":%d}`, target.base, settlement.PaymentID)
		s.auditNotify(ctx, settlement, domain.LogTypeCRMRequest, reqData, "sent", nil)
		err = s.notifier.MarkPaymentPaid(notifyCtx, target.base, settlement.PaymentID)
	}

	if err != nil {
		s.auditNotify(ctx, settlement, respType, "", "error", err)
		return err
	}
	s.auditNotify(ctx, settlement, respType, "", "success", nil)
	return nil
}

func (s *CallbackServiceImpl) auditNotify(ctx context.Context, settlement *domain.BillSettlement, logType domain.LogType, reqData, status string, notifyErr error) {
	entry := &domain.IntegrationLog{
		LogType:     logType,
		MemberID:    settlement.MemberID,
		DealID:      strconv.FormatInt(settlement.DealID, 10),
		ExternalID:  settlement.ExternalID,
		RequestData: reqData,
		Status:      status,
	}
	if notifyErr != nil {
		msg := notifyErr.Error()
		entry.ErrorMessage = &msg
	}
	s.appendLog(ctx, entry)
}

func (s *CallbackServiceImpl) appendLog(ctx context.Context, entry *domain.IntegrationLog) {
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("log_type", string(entry.LogType)).Msg("audit log write failed")
	}
}
