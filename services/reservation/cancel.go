package reservation

import (
	"context"
	"math"
	"time"

	"roomify/models"
	"roomify/services/notification"
	"roomify/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CancelResult reports the outcome of a cancellation.
type CancelResult struct {
	Status       models.ReservationStatus `json:"status"`
	RefundPct    float64                  `json:"refund_pct"`
	RefundAmount float64                  `json:"refund_amount"`
	PolicyName   string                   `json:"policy_name,omitempty"`
	// ReviewRequired is set when the policy lookup failed and the fail-safe
	// default was applied; the case needs manual review.
	ReviewRequired bool `json:"review_required,omitempty"`
}

// ComputeRefund derives the refund percentage for a cancellation. A host
// cancellation always refunds 100% — the host must make the guest whole
// regardless of policy. Guest refunds step down across the policy's day
// threshold and drop to zero once the start has passed.
func ComputeRefund(policy *models.CancellationPolicy, start time.Time, by models.CancelledBy, now time.Time) float64 {
	if by == models.CancelledByHost {
		return 100
	}
	daysBefore := math.Floor(start.Sub(now).Hours() / 24)
	switch {
	case daysBefore >= float64(policy.RefundBeforeDays):
		return policy.BeforePercentage
	case daysBefore >= 0:
		return policy.AfterPercentage
	default:
		return 0
	}
}

// CancelReservation cancels a reservation and computes the refund. The
// status update and the compensating refund record are applied in one
// transaction: a crash leaves either both or neither.
func (e *Engine) CancelReservation(ctx context.Context, reservationID string, by models.CancelledBy, actorID string) (*CancelResult, error) {
	logger := utils.GetLogger()

	res, err := e.ReservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "reservation not found", err)
	}
	switch res.Status {
	case models.ReservationCompleted:
		return nil, NewConflict("completed reservations cannot be cancelled")
	case models.ReservationCancelled:
		return nil, NewConflict("reservation is already cancelled")
	}

	listing, err := e.ListingRepo.GetByID(ctx, res.ListingID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "listing not found", err)
	}
	if actorID != "" {
		if by == models.CancelledByGuest && actorID != res.GuestID {
			return nil, NewForbidden("only the booking guest may cancel as guest")
		}
		if by == models.CancelledByHost && actorID != listing.OwnerID {
			return nil, NewForbidden("only the listing owner may cancel as host")
		}
	}

	policyName := listing.CancellationPolicy
	if policyName == "" {
		policyName = e.Fees.DefaultPolicy
	}

	result := &CancelResult{Status: models.ReservationCancelled, PolicyName: policyName}

	policy, err := e.PolicyRepo.GetPolicyByName(ctx, policyName)
	if err != nil {
		// Fail-safe defaults: a host cancellation still refunds 100%; a
		// guest cancellation defaults to 0% and is surfaced for manual
		// review. Never silently grant an unbounded refund.
		logger.Error("cancellation policy lookup failed, applying fail-safe defaults",
			zap.String("policy", policyName), zap.Error(err))
		result.ReviewRequired = by == models.CancelledByGuest
		if by == models.CancelledByHost {
			result.RefundPct = 100
		}
	} else {
		result.RefundPct = ComputeRefund(policy, res.Start, by, e.now())
	}

	// Refund only what was actually settled; an unpaid reservation just
	// changes status.
	if res.Settled() {
		result.RefundAmount = round2(res.TotalPrice * result.RefundPct / 100)
	}
	if result.RefundAmount > res.TotalPrice {
		result.RefundAmount = res.TotalPrice
	}

	txErr := e.ReservationRepo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := e.ReservationRepo.UpdateStatus(sc, res.ID, models.ReservationCancelled); err != nil {
			return err
		}
		if res.QueueStatus != nil {
			if err := e.ReservationRepo.UpdateQueueStatus(sc, res.ID, models.QueueSkipped); err != nil {
				return err
			}
		}
		if result.RefundAmount > 0 {
			// The original payment rows are never mutated; the refund is a
			// compensating negative entry.
			record := &models.PaymentRecord{
				ID:            uuid.New().String(),
				ReservationID: res.ID,
				Amount:        -result.RefundAmount,
				Currency:      res.Currency,
				Status:        "settled",
			}
			if err := e.PaymentRepo.Create(sc, record); err != nil {
				return err
			}
			if result.RefundAmount+settleEpsilon >= res.TotalPrice {
				if err := e.ReservationRepo.SetPaymentState(sc, res.ID, models.PaymentRefunded); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapError(CodeConflict, "cancellation transaction failed", txErr)
	}

	res.Status = models.ReservationCancelled
	e.publish(ctx, notification.EventReservationCancelled, res)
	return result, nil
}
