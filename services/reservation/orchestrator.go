package reservation

import (
	"context"
	"time"

	reservationRepo "roomify/database/repository/reservation"
	"roomify/models"
	"roomify/services/notification"
	"roomify/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// settleEpsilon absorbs float rounding when deciding whether a reservation
// is fully paid.
const settleEpsilon = 0.01

// CreateReservation is the transactional write path: it re-validates
// availability, prices the window, computes fees, assigns a queue ticket
// for slot-queue bookings, and persists the reservation — all inside one
// transaction. Any step failure aborts the whole transaction: no partial
// reservation, no orphaned ticket.
func (e *Engine) CreateReservation(ctx context.Context, guestID string, in models.CreateReservationInput) (*models.Reservation, error) {
	if guestID == "" {
		return nil, NewForbidden("missing guest identity")
	}
	if !in.Start.Before(in.End) {
		return nil, NewInvalidWindow("start must be before end")
	}
	start, end := in.Start.UTC(), in.End.UTC()

	listing, err := e.ListingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "listing not found", err)
	}

	requested := in.UnitType
	if requested == "" {
		requested = listing.UnitType
	}
	if !requested.Valid() {
		return nil, NewInvalidWindow("unknown unit type")
	}

	// Serialize racing exclusive writers before the availability re-check.
	// Slot-queue sessions skip the lock entirely: the slot is shared, and
	// the ticket counter plus the unique queue index already order racing
	// session writers, so N concurrent session bookings must all succeed.
	if requested != models.UnitSession {
		release, err := e.lockWindow(ctx, listing.ID, start, end)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var created *models.Reservation
	txErr := e.ReservationRepo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		// Never trust a pre-check done outside the transaction.
		avail, err := e.IsAvailable(sc, listing, start, end, requested)
		if err != nil {
			return err
		}
		if !avail.Available {
			if avail.Reason == ReasonConflict {
				return NewConflict(ReasonConflict)
			}
			return NewUnavailable(avail.Reason)
		}

		quote, err := e.Price(sc, listing, start, end, avail.EffectiveUnitType, in.TierID)
		if err != nil {
			return err
		}

		fees := e.ComputeFees(listing, quote.TotalPrice)
		now := e.now()
		deadline := now.Add(e.Fees.DepositDeadline)

		status := models.ReservationPending
		if listing.InstantConfirm {
			status = models.ReservationConfirmed
		}

		res := &models.Reservation{
			ID:              uuid.New().String(),
			ListingID:       listing.ID,
			GuestID:         guestID,
			HostID:          in.HostID,
			Start:           start,
			End:             end,
			UnitType:        avail.EffectiveUnitType,
			Units:           quote.UnitsBilled,
			GuestCount:      in.GuestCount,
			TierID:          quote.TierID,
			Currency:        quote.Currency,
			TotalPrice:      quote.TotalPrice,
			ServiceFee:      fees.ServiceFee,
			Deposit:         fees.Deposit,
			Remaining:       fees.Remaining,
			Commission:      fees.Commission,
			HostEarnings:    fees.HostEarnings,
			Status:          status,
			PaymentState:    models.PaymentUnpaid,
			DepositDeadline: &deadline,
			AutoCancelAt:    &deadline,
		}

		// Slot-queue ticketing: the counter document is the one place
		// strict serialization is required — two guests racing for the same
		// slot must never receive the same ticket.
		if requested == models.UnitSession && in.HostID != "" {
			ticket, err := e.ReservationRepo.NextTicketNumber(sc, listing.ID, in.HostID, start)
			if err != nil {
				return wrapError(CodeConflict, "ticket assignment failed", err)
			}
			waiting := models.QueueWaiting
			res.TicketNumber = &ticket
			res.QueueStatus = &waiting

			entry := &models.QueueEntry{
				ID:            uuid.New().String(),
				ReservationID: res.ID,
				ListingID:     listing.ID,
				HostID:        in.HostID,
				Start:         start,
				TicketNumber:  ticket,
				Status:        models.QueueWaiting,
			}
			if err := e.ReservationRepo.CreateQueueEntry(sc, entry); err != nil {
				if reservationRepo.IsDuplicateKey(err) {
					return NewConflict("lost ticket race for slot")
				}
				return wrapError(CodeConflict, "failed to enqueue ticket", err)
			}
		}

		if err := e.ReservationRepo.Create(sc, res); err != nil {
			return wrapError(CodeConflict, "failed to persist reservation", err)
		}
		created = res
		return nil
	})
	if txErr != nil {
		if CodeOf(txErr) != "" {
			return nil, txErr
		}
		return nil, wrapError(CodeConflict, "reservation transaction failed", txErr)
	}

	e.afterCreate(ctx, created, in.Method)
	return created, nil
}

// lockWindow takes the advisory slot lock for every calendar date the
// window [start, end) touches, in ascending date order so two overlapping
// windows always contend on their shared date instead of deadlocking.
// Locking only the start date is not enough: two overnight windows can
// overlap while starting on different dates, and the in-transaction
// availability checks would each run against a snapshot predating the other
// writer's insert. Losing any lock means another reservation touching this
// calendar slice is mid-flight; the caller retries with a fresh
// availability check.
func (e *Engine) lockWindow(ctx context.Context, listingID string, start, end time.Time) (func(), error) {
	logger := utils.GetLogger()

	var held []string
	release := func() {
		for _, key := range held {
			if err := e.ReservationRepo.ReleaseSlotLock(ctx, key); err != nil {
				logger.Warn("failed to release slot lock", zap.String("key", key), zap.Error(err))
			}
		}
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for day.Before(end) {
		key := reservationRepo.SlotLockKey(listingID, models.PrimaryDate(day))
		if err := e.ReservationRepo.AcquireSlotLock(ctx, key); err != nil {
			release()
			if reservationRepo.IsDuplicateKey(err) {
				return nil, NewConflict("another reservation for this window is in progress")
			}
			return nil, wrapError(CodeConflict, "failed to acquire slot lock", err)
		}
		held = append(held, key)
		day = day.AddDate(0, 0, 1)
	}
	return release, nil
}

// afterCreate runs the post-commit side effects: payment intent creation,
// deposit-deadline expiry scheduling, and the created event. None of these
// can fail the reservation; they are logged and left for reconciliation.
func (e *Engine) afterCreate(ctx context.Context, res *models.Reservation, method string) {
	logger := utils.GetLogger()

	if e.Payments != nil && method != "" {
		record, err := e.Payments.CreateIntent(ctx, res, method)
		if err != nil {
			logger.Error("payment intent creation failed",
				zap.String("reservationID", res.ID), zap.Error(err))
		} else if err := e.PaymentRepo.Create(ctx, record); err != nil {
			logger.Error("failed to persist payment intent record",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
	}

	if e.Expiry != nil && res.AutoCancelAt != nil {
		if err := e.Expiry.ScheduleExpiry(res.ID, *res.AutoCancelAt); err != nil {
			logger.Error("failed to schedule deposit expiry",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
	}

	e.publish(ctx, notification.EventReservationCreated, res)
}

func (e *Engine) publish(ctx context.Context, event string, res *models.Reservation) {
	if e.Events == nil {
		return
	}
	if err := e.Events.Publish(ctx, event, res); err != nil {
		utils.GetLogger().Warn("failed to publish reservation event",
			zap.String("event", event), zap.String("reservationID", res.ID), zap.Error(err))
	}
}

// Confirm moves a pending reservation to confirmed.
func (e *Engine) Confirm(ctx context.Context, reservationID string) error {
	res, err := e.ReservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return wrapError(CodeNotFound, "reservation not found", err)
	}
	if res.Status != models.ReservationPending {
		return NewConflict("only pending reservations can be confirmed")
	}
	if err := e.ReservationRepo.UpdateStatus(ctx, reservationID, models.ReservationConfirmed); err != nil {
		return wrapError(CodeConflict, "failed to confirm reservation", err)
	}
	res.Status = models.ReservationConfirmed
	e.publish(ctx, notification.EventReservationConfirmed, res)
	return nil
}

// Complete closes out a confirmed, fully settled reservation.
func (e *Engine) Complete(ctx context.Context, reservationID string) error {
	res, err := e.ReservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return wrapError(CodeNotFound, "reservation not found", err)
	}
	if res.Status != models.ReservationConfirmed {
		return NewConflict("only confirmed reservations can be completed")
	}
	if res.AmountPaid+settleEpsilon < res.TotalPrice {
		return NewConflict("reservation is not fully settled")
	}
	if err := e.ReservationRepo.UpdateStatus(ctx, reservationID, models.ReservationCompleted); err != nil {
		return wrapError(CodeConflict, "failed to complete reservation", err)
	}
	return nil
}

// MarkPaid applies a webhook-driven settlement as a plain state transition.
// Pricing is never re-run; the amount lands on the ledger and the payment
// state advances. Settling the deposit also confirms a pending reservation.
func (e *Engine) MarkPaid(ctx context.Context, reservationID string, amountPaid float64) error {
	if amountPaid <= 0 {
		return NewInvalidWindow("settled amount must be positive")
	}
	res, err := e.ReservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return wrapError(CodeNotFound, "reservation not found", err)
	}
	if res.Status == models.ReservationCancelled {
		return NewConflict("cannot settle a cancelled reservation")
	}

	txErr := e.ReservationRepo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		record := &models.PaymentRecord{
			ID:            uuid.New().String(),
			ReservationID: res.ID,
			Amount:        amountPaid,
			Currency:      res.Currency,
			Status:        "settled",
		}
		if err := e.PaymentRepo.Create(sc, record); err != nil {
			return err
		}

		state := models.PaymentDepositPaid
		if res.AmountPaid+amountPaid+settleEpsilon >= res.TotalPrice {
			state = models.PaymentPaid
		}
		if err := e.ReservationRepo.ApplyPayment(sc, res.ID, amountPaid, state); err != nil {
			return err
		}

		if res.Status == models.ReservationPending {
			if err := e.ReservationRepo.UpdateStatus(sc, res.ID, models.ReservationConfirmed); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return wrapError(CodeConflict, "failed to apply settlement", txErr)
	}
	e.publish(ctx, notification.EventReservationPaid, res)
	return nil
}

// MarkFailed records a failed settlement attempt.
func (e *Engine) MarkFailed(ctx context.Context, reservationID string) error {
	if err := e.ReservationRepo.SetPaymentState(ctx, reservationID, models.PaymentFailed); err != nil {
		return wrapError(CodeNotFound, "reservation not found", err)
	}
	return nil
}

// ExpireIfUnpaid cancels a reservation whose deposit deadline passed while
// still pending and unpaid. Invoked by the deadline worker; a reservation
// that was paid or confirmed in the meantime is left alone.
func (e *Engine) ExpireIfUnpaid(ctx context.Context, reservationID string) error {
	res, err := e.ReservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return wrapError(CodeNotFound, "reservation not found", err)
	}
	if res.Status != models.ReservationPending || res.Settled() {
		return nil
	}
	if res.AutoCancelAt == nil || e.now().Before(*res.AutoCancelAt) {
		return nil
	}
	if err := e.ReservationRepo.UpdateStatus(ctx, reservationID, models.ReservationCancelled); err != nil {
		return wrapError(CodeConflict, "failed to expire reservation", err)
	}
	res.Status = models.ReservationCancelled
	e.publish(ctx, notification.EventReservationCancelled, res)
	return nil
}
