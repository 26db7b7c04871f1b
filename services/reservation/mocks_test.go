package reservation

import (
	"context"
	"errors"
	"sync"
	"time"

	"roomify/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Function-field mocks: each test wires only the calls it cares about.
// Unwired calls return zero values.

type mockListingRepo struct {
	GetByIDFn         func(ctx context.Context, id string) (*models.Listing, error)
	GetPolicyByNameFn func(ctx context.Context, name string) (*models.CancellationPolicy, error)
}

func (m *mockListingRepo) Create(ctx context.Context, l *models.Listing) error { return nil }
func (m *mockListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errors.New("not wired")
}
func (m *mockListingRepo) Update(ctx context.Context, l *models.Listing) error          { return nil }
func (m *mockListingRepo) SetActive(ctx context.Context, id string, active bool) error  { return nil }
func (m *mockListingRepo) UpsertPolicy(ctx context.Context, p *models.CancellationPolicy) error {
	return nil
}
func (m *mockListingRepo) GetPolicyByName(ctx context.Context, name string) (*models.CancellationPolicy, error) {
	if m.GetPolicyByNameFn != nil {
		return m.GetPolicyByNameFn(ctx, name)
	}
	return nil, errors.New("not wired")
}

type mockPricingRepo struct {
	GetTierFn           func(ctx context.Context, tierID string) (*models.PricingTier, error)
	GetTiersByListingFn func(ctx context.Context, listingID string) ([]models.PricingTier, error)
	GetOverridesFn      func(ctx context.Context, tierID string, dates []string) (map[string]float64, error)
}

func (m *mockPricingRepo) CreateTier(ctx context.Context, t *models.PricingTier) error { return nil }
func (m *mockPricingRepo) GetTier(ctx context.Context, tierID string) (*models.PricingTier, error) {
	if m.GetTierFn != nil {
		return m.GetTierFn(ctx, tierID)
	}
	return nil, errors.New("not wired")
}
func (m *mockPricingRepo) GetTiersByListing(ctx context.Context, listingID string) ([]models.PricingTier, error) {
	if m.GetTiersByListingFn != nil {
		return m.GetTiersByListingFn(ctx, listingID)
	}
	return nil, nil
}
func (m *mockPricingRepo) DeleteTier(ctx context.Context, listingID, tierID string) error {
	return nil
}
func (m *mockPricingRepo) ClearDefault(ctx context.Context, listingID string) error       { return nil }
func (m *mockPricingRepo) SetOverride(ctx context.Context, o *models.PriceOverride) error { return nil }
func (m *mockPricingRepo) DeleteOverride(ctx context.Context, tierID, date string) error  { return nil }
func (m *mockPricingRepo) GetOverrides(ctx context.Context, tierID string, dates []string) (map[string]float64, error) {
	if m.GetOverridesFn != nil {
		return m.GetOverridesFn(ctx, tierID, dates)
	}
	return map[string]float64{}, nil
}

type mockAvailabilityRepo struct {
	GetBlocksOverlappingFn      func(ctx context.Context, listingID string, start, end time.Time) ([]models.BlockedInterval, error)
	GetBlocksByPrimaryDateFn    func(ctx context.Context, listingID, date string) ([]models.BlockedInterval, error)
	GetIntervalsOverlappingFn   func(ctx context.Context, listingID string, start, end time.Time) ([]models.AvailabilityInterval, error)
	GetIntervalsByPrimaryDateFn func(ctx context.Context, listingID, date string) ([]models.AvailabilityInterval, error)
}

func (m *mockAvailabilityRepo) CreateBlock(ctx context.Context, b *models.BlockedInterval) error {
	return nil
}
func (m *mockAvailabilityRepo) DeleteBlock(ctx context.Context, listingID, blockID string) error {
	return nil
}
func (m *mockAvailabilityRepo) GetBlocksOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.BlockedInterval, error) {
	if m.GetBlocksOverlappingFn != nil {
		return m.GetBlocksOverlappingFn(ctx, listingID, start, end)
	}
	return nil, nil
}
func (m *mockAvailabilityRepo) GetBlocksByPrimaryDate(ctx context.Context, listingID, date string) ([]models.BlockedInterval, error) {
	if m.GetBlocksByPrimaryDateFn != nil {
		return m.GetBlocksByPrimaryDateFn(ctx, listingID, date)
	}
	return nil, nil
}
func (m *mockAvailabilityRepo) CreateInterval(ctx context.Context, iv *models.AvailabilityInterval) error {
	return nil
}
func (m *mockAvailabilityRepo) DeleteInterval(ctx context.Context, listingID, intervalID string) error {
	return nil
}
func (m *mockAvailabilityRepo) GetIntervalsOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.AvailabilityInterval, error) {
	if m.GetIntervalsOverlappingFn != nil {
		return m.GetIntervalsOverlappingFn(ctx, listingID, start, end)
	}
	return nil, nil
}
func (m *mockAvailabilityRepo) GetIntervalsByPrimaryDate(ctx context.Context, listingID, date string) ([]models.AvailabilityInterval, error) {
	if m.GetIntervalsByPrimaryDateFn != nil {
		return m.GetIntervalsByPrimaryDateFn(ctx, listingID, date)
	}
	return nil, nil
}

// mockReservationRepo records writes in memory. ExecuteTransaction runs the
// body directly and snapshots state so a transaction error rolls everything
// back, mirroring the real commit/abort semantics.
type mockReservationRepo struct {
	mu sync.Mutex

	Reservations map[string]*models.Reservation
	QueueEntries []models.QueueEntry
	Counters     map[string]int
	Locks        map[string]bool

	FindOverlappingFn func(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error)
	FindInRangeFn     func(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error)
	AcquireLockErr    error

	// LockHistory records every key handed to AcquireSlotLock, in order.
	LockHistory []string
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		Reservations: make(map[string]*models.Reservation),
		Counters:     make(map[string]int),
		Locks:        make(map[string]bool),
	}
}

func (m *mockReservationRepo) Create(ctx context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.Reservations[r.ID] = &cp
	return nil
}

func (m *mockReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reservations[id]
	if !ok {
		return nil, errors.New("reservation not found")
	}
	cp := *r
	return &cp, nil
}

func (m *mockReservationRepo) FindOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error) {
	if m.FindOverlappingFn != nil {
		return m.FindOverlappingFn(ctx, listingID, start, end)
	}
	return nil, nil
}

func (m *mockReservationRepo) FindInRange(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error) {
	if m.FindInRangeFn != nil {
		return m.FindInRangeFn(ctx, listingID, start, end)
	}
	return nil, nil
}

func (m *mockReservationRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.Status = status
	return nil
}

func (m *mockReservationRepo) ApplyPayment(ctx context.Context, id string, amount float64, state models.PaymentState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.AmountPaid += amount
	r.PaymentState = state
	return nil
}

func (m *mockReservationRepo) SetPaymentState(ctx context.Context, id string, state models.PaymentState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.PaymentState = state
	return nil
}

func (m *mockReservationRepo) NextTicketNumber(ctx context.Context, listingID, hostID string, start time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := listingID + "|" + hostID + "|" + start.UTC().Format(time.RFC3339)
	m.Counters[key]++
	return m.Counters[key], nil
}

func (m *mockReservationRepo) CreateQueueEntry(ctx context.Context, entry *models.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueEntries = append(m.QueueEntries, *entry)
	return nil
}

func (m *mockReservationRepo) UpdateQueueStatus(ctx context.Context, reservationID string, status models.QueueStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.QueueEntries {
		if m.QueueEntries[i].ReservationID == reservationID {
			m.QueueEntries[i].Status = status
		}
	}
	if r, ok := m.Reservations[reservationID]; ok && r.QueueStatus != nil {
		r.QueueStatus = &status
	}
	return nil
}

func (m *mockReservationRepo) ExecuteTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	m.mu.Lock()
	snapRes := make(map[string]*models.Reservation, len(m.Reservations))
	for k, v := range m.Reservations {
		cp := *v
		snapRes[k] = &cp
	}
	snapQueue := append([]models.QueueEntry(nil), m.QueueEntries...)
	snapCounters := make(map[string]int, len(m.Counters))
	for k, v := range m.Counters {
		snapCounters[k] = v
	}
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.Reservations = snapRes
		m.QueueEntries = snapQueue
		m.Counters = snapCounters
		m.mu.Unlock()
		return err
	}
	return nil
}

// AcquireSlotLock mirrors the unique-_id insert: acquiring a key that is
// already held fails with a duplicate-key write error.
func (m *mockReservationRepo) AcquireSlotLock(ctx context.Context, key string) error {
	if m.AcquireLockErr != nil {
		return m.AcquireLockErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockHistory = append(m.LockHistory, key)
	if m.Locks[key] {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	}
	m.Locks[key] = true
	return nil
}

func (m *mockReservationRepo) ReleaseSlotLock(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Locks, key)
	return nil
}

type mockPaymentRepo struct {
	mu      sync.Mutex
	Records []models.PaymentRecord

	CreateErr error
}

func (m *mockPaymentRepo) Create(ctx context.Context, record *models.PaymentRecord) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, *record)
	return nil
}

func (m *mockPaymentRepo) ListByReservation(ctx context.Context, reservationID string) ([]models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PaymentRecord
	for _, r := range m.Records {
		if r.ReservationID == reservationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) SumSettled(ctx context.Context, reservationID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0.0
	for _, r := range m.Records {
		if r.ReservationID == reservationID && r.Status == "settled" {
			sum += r.Amount
		}
	}
	return sum, nil
}

// fixedNow is the deterministic test clock.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() (*Engine, *mockReservationRepo, *mockPaymentRepo) {
	resvRepo := newMockReservationRepo()
	payRepo := &mockPaymentRepo{}
	e := &Engine{
		ListingRepo:      &mockListingRepo{},
		PolicyRepo:       &mockListingRepo{},
		PricingRepo:      &mockPricingRepo{},
		AvailabilityRepo: &mockAvailabilityRepo{},
		ReservationRepo:  resvRepo,
		PaymentRepo:      payRepo,
		Fees: FeeConfig{
			CommissionRate:  0.10,
			ServiceFeeRate:  0.05,
			DepositRate:     0.20,
			DepositDeadline: 12 * time.Hour,
			MinSlotDuration: 30 * time.Minute,
			DefaultPolicy:   "flexible",
		},
		Now: func() time.Time { return fixedNow },
	}
	return e, resvRepo, payRepo
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testListing(unitType models.UnitType, policy models.AvailabilityPolicy) *models.Listing {
	return &models.Listing{
		ID:       "listing-1",
		OwnerID:  "host-1",
		Name:     "Test Listing",
		UnitType: unitType,
		Policy:   policy,
		Active:   true,
		Currency: "USD",
	}
}
