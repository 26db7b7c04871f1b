package availabilityRepo

import (
	"context"
	"time"

	"roomify/models"
)

// AvailabilityRepository provides the two host-declared fact sources of the
// availability ledger: blocked intervals and explicit availability
// intervals. (The third source, existing reservations, lives in the
// reservation repository.)
type AvailabilityRepository interface {
	CreateBlock(ctx context.Context, block *models.BlockedInterval) error
	DeleteBlock(ctx context.Context, listingID, blockID string) error
	// GetBlocksOverlapping returns blocks whose [start, end) overlaps the
	// given half-open window.
	GetBlocksOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.BlockedInterval, error)
	// GetBlocksByPrimaryDate returns overnight blocks keyed to a calendar
	// date, used for day/night matching.
	GetBlocksByPrimaryDate(ctx context.Context, listingID, date string) ([]models.BlockedInterval, error)

	CreateInterval(ctx context.Context, interval *models.AvailabilityInterval) error
	DeleteInterval(ctx context.Context, listingID, intervalID string) error
	GetIntervalsOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.AvailabilityInterval, error)
	GetIntervalsByPrimaryDate(ctx context.Context, listingID, date string) ([]models.AvailabilityInterval, error)
}
