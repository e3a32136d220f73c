// Package pipeline turns raw POS/membership exports into normalized,
// deduplicated customer events. Every stage is a pure function of its input
// slice; the service only wires them together in order.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcallahan/adscrub/internal/domain"
	"github.com/jcallahan/adscrub/internal/identity"
	"github.com/jcallahan/adscrub/internal/normalize"
	"github.com/jcallahan/adscrub/internal/parser"
)

// Service runs the cleaning pipelines.
type Service struct {
	extractor *identity.Extractor
	log       *zap.Logger
}

// NewService creates a new cleaning service. A nil deny list falls back to
// the built-in defaults; a nil logger is replaced with a no-op one.
func NewService(deny *identity.DenyList, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		extractor: identity.NewExtractor(deny),
		log:       log,
	}
}

// RestaurantRequest carries the per-run inputs of the restaurant variant.
// City and state are attached uniformly to every output row; amounts are read
// per row from the export.
type RestaurantRequest struct {
	FileName string
	Payload  []byte
	City     string
	State    string
}

// GymRequest carries the per-run inputs of the gym variant. Value is a flat
// monetary amount applied to every sign-up; the export has no amount column.
type GymRequest struct {
	FileName string
	Payload  []byte
	Value    decimal.Decimal
}

// Summary reports what a cleaning run did.
type Summary struct {
	RawRows       int
	AcceptedRows  int
	Orders        int
	Events        int
	FlooredValues int
	BaselineTotal decimal.Decimal
	FinalTotal    decimal.Decimal
}

var restaurantColumns = []string{
	"tab_name", "order", "phone", "email",
	"paid_date", "order_date", "amount", "status",
}

var gymColumns = []string{
	"mbr_first", "mbr_last", "city", "st", "zip",
	"email", "home_phone_1", "cell_phone_1", "join",
}

// CleanRestaurant runs the restaurant pipeline: status filter, baseline
// capture, identity extraction, phone validation, order-level grouping, the
// seven-pass same-customer collapse, sequencing, and the totals guard.
func (s *Service) CleanRestaurant(ctx context.Context, req RestaurantRequest) ([]domain.Event, Summary, error) {
	var summary Summary
	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	table, err := parser.Parse(req.FileName, req.Payload)
	if err != nil {
		return nil, summary, err
	}
	if err := requireColumns(table, restaurantColumns); err != nil {
		return nil, summary, err
	}

	summary.RawRows = len(table.Rows)
	rows := s.readTabRows(table)
	summary.AcceptedRows = len(rows)

	baseline := decimal.Zero
	for _, row := range rows {
		baseline = baseline.Add(row.Amount)
	}
	baseline = baseline.Round(2)
	summary.BaselineTotal = baseline

	for i := range rows {
		res := s.extractor.Clean(rows[i].TabName)
		rows[i].TabName = res.Name
		if res.DropPhone {
			rows[i].Phone = ""
		}
		rows[i].Phone = identity.CleanPhone(rows[i].Phone)
	}

	orders := groupOrders(rows)
	summary.Orders = len(orders)

	events := make([]domain.Event, 0, len(orders))
	for _, order := range orders {
		first, last := identity.SplitName(identity.Polish(order.Name))
		events = append(events, domain.Event{
			FirstName: first,
			LastName:  last,
			City:      req.City,
			State:     req.State,
			Email:     order.Email,
			Phone:     order.Phone,
			EventTime: order.EventTime,
			Value:     order.Value,
			SourceKey: order.Key,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}
	events = collapseDuplicates(events)

	sortByEventTime(events)
	assignOrderIDs(events)

	if err := checkTotals(events, baseline); err != nil {
		return nil, summary, err
	}
	summary.FlooredValues = floorValues(events)
	summary.Events = len(events)
	summary.FinalTotal = sumValues(events)

	s.log.Info("restaurant clean finished",
		zap.Int("raw_rows", summary.RawRows),
		zap.Int("accepted_rows", summary.AcceptedRows),
		zap.Int("orders", summary.Orders),
		zap.Int("events", summary.Events),
		zap.String("total", summary.FinalTotal.StringFixed(2)),
	)
	return events, summary, nil
}

// CleanGym runs the gym pipeline. Sign-ups map 1:1 to events; the work is
// normalization, the flat value, fixed 23:30 event times, and the 2-minute
// collision offsets per identity dimension.
func (s *Service) CleanGym(ctx context.Context, req GymRequest) ([]domain.Event, Summary, error) {
	var summary Summary
	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	table, err := parser.Parse(req.FileName, req.Payload)
	if err != nil {
		return nil, summary, err
	}
	if err := requireColumns(table, gymColumns); err != nil {
		return nil, summary, err
	}

	value := req.Value.Round(2)
	summary.RawRows = len(table.Rows)
	summary.AcceptedRows = summary.RawRows

	baseline := value.Mul(decimal.NewFromInt(int64(len(table.Rows)))).Round(2)
	summary.BaselineTotal = baseline

	events := make([]domain.Event, 0, len(table.Rows))
	for i := range table.Rows {
		row := s.readMemberRow(table, i)
		events = append(events, domain.Event{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			City:      row.City,
			State:     row.State,
			Zip:       row.Zip,
			Email:     row.Email,
			Phone:     row.CellPhone,
			EventTime: fixedEventTime(row.JoinedAt),
			Value:     value,
		})
	}

	sortByEventTimeAndPhone(events)
	resolveCollisions(events, func(ev domain.Event) string { return ev.Phone })
	resolveCollisions(events, func(ev domain.Event) string { return ev.Email })

	sortByEventTime(events)
	assignOrderIDs(events)

	if err := checkTotals(events, baseline); err != nil {
		return nil, summary, err
	}
	summary.FlooredValues = floorValues(events)
	summary.Events = len(events)
	summary.FinalTotal = sumValues(events)

	s.log.Info("gym clean finished",
		zap.Int("raw_rows", summary.RawRows),
		zap.Int("events", summary.Events),
		zap.Int("floored_values", summary.FlooredValues),
		zap.String("total", summary.FinalTotal.StringFixed(2)),
	)
	return events, summary, nil
}

// readTabRows normalizes raw restaurant rows and drops everything outside the
// accepted payment statuses. Unparseable amounts and timestamps degrade to
// their zero values; they never abort the run.
func (s *Service) readTabRows(table parser.Table) []domain.TabRow {
	rows := make([]domain.TabRow, 0, len(table.Rows))
	for i := range table.Rows {
		status := strings.ToUpper(table.Get(i, "status"))
		if _, ok := domain.AcceptedStatuses[status]; !ok {
			continue
		}

		amount, err := normalize.ParseAmount(table.Get(i, "amount"))
		if err != nil {
			s.log.Warn("unparseable amount, treating as zero",
				zap.Int("row", i+2), zap.Error(err))
		}
		paidAt := parseTimeField(table.Get(i, "paid_date"))
		orderedAt := parseTimeField(table.Get(i, "order_date"))

		rows = append(rows, domain.TabRow{
			TabName:     table.Get(i, "tab_name"),
			OrderNumber: table.Get(i, "order"),
			Phone:       normalize.PhoneDigits(table.Get(i, "phone")),
			Email:       table.Get(i, "email"),
			PaidAt:      paidAt,
			OrderedAt:   orderedAt,
			Amount:      amount,
			Status:      status,
			Location:    table.Get(i, "location"),
		})
	}
	return rows
}

// readMemberRow normalizes one gym sign-up row. Both phone columns are
// validated independently; the cell phone is the one that reaches the output.
func (s *Service) readMemberRow(table parser.Table, i int) domain.MemberRow {
	return domain.MemberRow{
		FirstName: table.Get(i, "mbr_first"),
		LastName:  table.Get(i, "mbr_last"),
		City:      table.Get(i, "city"),
		State:     table.Get(i, "st"),
		Zip:       table.Get(i, "zip"),
		Email:     table.Get(i, "email"),
		HomePhone: identity.CleanPhone(normalize.PhoneDigits(table.Get(i, "home_phone_1"))),
		CellPhone: identity.CleanPhone(normalize.PhoneDigits(table.Get(i, "cell_phone_1"))),
		JoinedAt:  parseTimeField(table.Get(i, "join")),
	}
}

// fixedEventTime pins a sign-up to 23:30 on its join day so every event of a
// batch lands at a predictable time before collision offsetting.
func fixedEventTime(joined time.Time) time.Time {
	return time.Date(joined.Year(), joined.Month(), joined.Day(), 23, 30, 0, 0, joined.Location())
}

func parseTimeField(raw string) time.Time {
	ts, err := normalize.ParseTime(raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func requireColumns(table parser.Table, names []string) error {
	var missing []string
	for _, name := range names {
		if !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("input file is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sumValues(events []domain.Event) decimal.Decimal {
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.Value)
	}
	return total.Round(2)
}
