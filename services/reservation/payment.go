package reservation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"roomify/models"
	"roomify/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeIntentCreator creates deposit payment intents through Stripe.
// Settlement itself arrives later via the gateway webhook.
type StripeIntentCreator struct{}

// CreateIntent opens a payment intent for the reservation deposit. Card
// deposits get a gateway intent; cash deposits are recorded as pending and
// settled at handover.
func (s *StripeIntentCreator) CreateIntent(ctx context.Context, res *models.Reservation, method string) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{
		ID:            uuid.New().String(),
		ReservationID: res.ID,
		Amount:        res.Deposit,
		Currency:      res.Currency,
		Method:        method,
		Status:        "pending",
	}

	switch method {
	case "card":
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(math.Round(res.Deposit * 100))),
			Currency: stripe.String(strings.ToLower(res.Currency)),
			Metadata: map[string]string{"reservation_id": res.ID},
		}
		params.Context = ctx
		pi, err := paymentintent.New(params)
		if err != nil {
			return nil, fmt.Errorf("stripe intent creation failed: %w", err)
		}
		record.IntentID = pi.ID
		utils.GetLogger().Info("payment intent created",
			zap.String("reservationID", res.ID), zap.String("intentID", pi.ID))
	case "cash":
		// Nothing to open with the gateway.
	default:
		return nil, errors.New("unsupported payment method: " + method)
	}
	return record, nil
}
