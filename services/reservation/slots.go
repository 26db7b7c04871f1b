package reservation

import (
	"context"
	"sort"
	"time"

	"roomify/models"
)

// Blocker is an occupied interval the splitter carves around.
type Blocker struct {
	Start time.Time
	End   time.Time
}

// SplitAvailable decomposes [windowStart, windowEnd) into bookable
// sub-ranges around the blockers. Sub-ranges shorter than minDuration are
// dropped: they are not practically bookable. Display aid only.
func SplitAvailable(windowStart, windowEnd time.Time, blockers []Blocker, minDuration time.Duration) []models.FreeSlot {
	sorted := make([]Blocker, len(blockers))
	copy(sorted, blockers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	full := windowEnd.Sub(windowStart)
	var slots []models.FreeSlot
	emit := func(start, end time.Time) {
		if end.Sub(start) < minDuration {
			return
		}
		slots = append(slots, models.FreeSlot{
			Start:   start,
			End:     end,
			Partial: end.Sub(start) < full,
		})
	}

	cursor := windowStart
	for _, b := range sorted {
		if !b.Start.Before(windowEnd) || !b.End.After(windowStart) {
			continue
		}
		if b.Start.After(cursor) {
			emit(cursor, b.Start)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(windowEnd) {
		emit(cursor, windowEnd)
	}
	return slots
}

// ListFreeSlots returns the bookable sub-ranges of one calendar date on a
// listing, carved around blocks and existing reservations. For a
// closed-by-default listing the base windows are its explicit availability
// entries clipped to the date.
func (e *Engine) ListFreeSlots(ctx context.Context, listingID, date string) ([]models.FreeSlot, error) {
	day, err := time.ParseInLocation(models.PrimaryDateLayout, date, time.UTC)
	if err != nil {
		return nil, NewInvalidWindow("invalid date, expected YYYY-MM-DD")
	}
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	listing, err := e.ListingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "listing not found", err)
	}

	blockers, err := e.collectBlockers(ctx, listing, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	baseWindows := [][2]time.Time{{dayStart, dayEnd}}
	if listing.Policy == models.PolicyClosedByDefault {
		intervals, err := e.AvailabilityRepo.GetIntervalsOverlapping(ctx, listing.ID, dayStart, dayEnd)
		if err != nil {
			return nil, wrapError(CodeUnavailable, ReasonCheckFailed, err)
		}
		baseWindows = baseWindows[:0]
		for _, iv := range intervals {
			start, end := clip(iv.Start, iv.End, dayStart, dayEnd)
			if start.Before(end) {
				baseWindows = append(baseWindows, [2]time.Time{start, end})
			}
		}
	}

	var slots []models.FreeSlot
	for _, w := range baseWindows {
		slots = append(slots, SplitAvailable(w[0], w[1], blockers, e.Fees.MinSlotDuration)...)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots, nil
}

// collectBlockers merges blocked intervals and pending/confirmed
// reservations into one blocker list for the window.
func (e *Engine) collectBlockers(ctx context.Context, listing *models.Listing, start, end time.Time) ([]Blocker, error) {
	blocks, err := e.findBlocks(ctx, listing, start, end, listing.UnitType)
	if err != nil {
		return nil, wrapError(CodeUnavailable, ReasonCheckFailed, err)
	}
	reservations, err := e.ReservationRepo.FindInRange(ctx, listing.ID, start, end)
	if err != nil {
		return nil, wrapError(CodeUnavailable, ReasonCheckFailed, err)
	}

	blockers := make([]Blocker, 0, len(blocks)+len(reservations))
	for _, b := range blocks {
		blockers = append(blockers, Blocker{Start: b.Start, End: b.End})
	}
	for _, r := range reservations {
		if r.UnitType.Exclusive() {
			blockers = append(blockers, Blocker{Start: r.Start, End: r.End})
		}
	}
	return blockers, nil
}

func clip(start, end, boundStart, boundEnd time.Time) (time.Time, time.Time) {
	if start.Before(boundStart) {
		start = boundStart
	}
	if end.After(boundEnd) {
		end = boundEnd
	}
	return start, end
}
