package get_planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	backendRepo "github.com/m04kA/SMC-PlanningService/internal/infra/storage/backend"
	"github.com/m04kA/SMC-PlanningService/internal/integrations/terrainapi"
	"github.com/m04kA/SMC-PlanningService/internal/planning"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// UseCase use case построения недельного планинга терраина
type UseCase struct {
	fields           FieldSource
	unavailabilities UnavailabilitySource
	directory        DirectoryLoader
	builder          GridBuilder
	lookup           *planning.ReservationLookup
	metrics          planning.MetricsRecorder
	timeProvider     TimeProvider
	options          Options
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// lookup и metrics могут быть nil: без lookup телефоны неизвестных броней не догружаются.
func NewUseCase(
	fields FieldSource,
	unavailabilities UnavailabilitySource,
	directory DirectoryLoader,
	builder GridBuilder,
	lookup *planning.ReservationLookup,
	metrics planning.MetricsRecorder,
	timeProvider TimeProvider,
	options Options,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if !options.DefaultOpening.IsValid() {
		options.DefaultOpening = domain.DefaultOpeningTime
	}
	if !options.DefaultClosing.IsValid() {
		options.DefaultClosing = domain.DefaultClosingTime
	}
	if options.NightShiftLimitMinutes <= 0 {
		options.NightShiftLimitMinutes = domain.NightShiftLimitMinutes
	}
	return &UseCase{
		fields:           fields,
		unavailabilities: unavailabilities,
		directory:        directory,
		builder:          builder,
		lookup:           lookup,
		metrics:          metrics,
		timeProvider:     timeProvider,
		options:          options,
		logger:           logger,
	}
}

// Execute выполняет use case построения планинга
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetPlanning: field=%d, owner=%d, date=%s, wait=%t",
		req.FieldID, req.OwnerID, types.FormatDate(req.Date), req.Wait)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetPlanning: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и неделя
	now := uc.timeProvider.Now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	week := planning.WeekOf(date)

	// 3. Терраин
	field, err := uc.findField(ctx, req.OwnerID, req.FieldID)
	if err != nil {
		return nil, err
	}
	field = uc.withDefaultHours(field)

	// 4. Записи о занятости терраина. Без них показывать нечего.
	records, err := uc.unavailabilities.ListUnavailabilities(ctx, field.ID)
	if err != nil {
		if !isNotFound(err) {
			uc.logger.Error("GetPlanning: failed to get unavailabilities for field=%d: %v", field.ID, err)
			return nil, fmt.Errorf("%w: failed to get unavailabilities: %v", ErrInternal, err)
		}
		uc.logger.Warn("GetPlanning: no unavailabilities for field=%d", field.ID)
		records = []domain.Unavailability{}
	}
	records = inWeek(records, week)

	// 5. Справочник броней, абонементов и клиентов (деградирует без ошибки)
	snap := uc.directory.Load(ctx)
	if snap.Degraded.Any() {
		uc.logger.Warn("GetPlanning: directory degraded for field=%d: %+v", field.ID, snap.Degraded)
	}

	// 6. Индекс телефонов
	index := planning.NewPhoneIndex(
		planning.Directory{
			Reservations:  snap.Reservations,
			Subscriptions: snap.Subscriptions,
			Clients:       snap.Clients,
		},
		planning.IndexOptions{
			Lookup: uc.lookup,
			OnResolved: func(res domain.Reservation) {
				uc.directory.AddReservation(context.WithoutCancel(ctx), res)
			},
		},
		uc.logger,
		uc.metrics,
	)
	index.Prime(ctx, records)

	// 7. Сетка
	hours := planning.GenerateHours(field.OpeningTime, field.ClosingTime)
	input := planning.BuildInput{
		Week:                   week,
		Hours:                  hours,
		OpeningTime:            field.OpeningOrDefault(),
		Records:                records,
		NightShiftLimitMinutes: uc.options.NightShiftLimitMinutes,
		Trigger:                planning.TriggerRequest,
	}
	grid := uc.builder.Build(input)
	phones := resolvePhones(ctx, index, grid)

	// 8. Ожидание отложенных загрузок и перестроение
	rebuilt := false
	if req.Wait && uc.waitForLookups(ctx, index) {
		input.Trigger = planning.TriggerRebuild
		grid = uc.builder.Build(input)
		phones = resolvePhones(ctx, index, grid)
		rebuilt = true
	}

	uc.logger.Info("GetPlanning: built planning for field=%d, week=%s, records=%d, hours=%d, rebuilt=%t",
		field.ID, types.FormatDate(week.Start()), len(records), len(hours), rebuilt)

	return render(field, grid, phones, now, snap.Degraded.Any(), rebuilt), nil
}

// findField ищет терраин среди терраинов владельца (или всех терраинов)
func (uc *UseCase) findField(ctx context.Context, ownerID, fieldID types.ID) (*domain.Field, error) {
	fields, err := uc.fields.ListFields(ctx, ownerID)
	if err != nil {
		if isNotFound(err) {
			uc.logger.Warn("GetPlanning: owner id=%d has no fields", ownerID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("GetPlanning: failed to list fields for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: failed to list fields: %v", ErrInternal, err)
	}

	for i := range fields {
		if fields[i].ID == fieldID {
			return &fields[i], nil
		}
	}

	uc.logger.Warn("GetPlanning: field id=%d not found for owner=%d", fieldID, ownerID)
	return nil, ErrFieldNotFound
}

// withDefaultHours подставляет часы работы по умолчанию, если у терраина они не заданы или битые
func (uc *UseCase) withDefaultHours(field *domain.Field) *domain.Field {
	out := *field
	if !out.OpeningTime.IsValid() {
		out.OpeningTime = uc.options.DefaultOpening
	}
	if !out.ClosingTime.IsValid() {
		out.ClosingTime = uc.options.DefaultClosing
	}
	return &out
}

// waitForLookups ждет отложенные загрузки не дольше WaitTimeout.
// Возвращает true, если за это время данные изменились.
func (uc *UseCase) waitForLookups(ctx context.Context, index *planning.PhoneIndex) bool {
	waitCtx := ctx
	if uc.options.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, uc.options.WaitTimeout)
		defer cancel()
	}

	if err := index.Wait(waitCtx); err != nil {
		uc.logger.Warn("GetPlanning: deferred lookups not finished: %v", err)
	}

	select {
	case <-index.Changes():
		return true
	default:
		return false
	}
}

// inWeek оставляет записи, чей базовый день попадает в неделю
func inWeek(records []domain.Unavailability, week planning.Week) []domain.Unavailability {
	out := make([]domain.Unavailability, 0, len(records))
	for _, rec := range records {
		if week.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// resolvePhones разрешает телефон каждой размещенной записи один раз
func resolvePhones(ctx context.Context, index *planning.PhoneIndex, grid *planning.Grid) map[types.ID]string {
	records := grid.Records()
	phones := make(map[types.ID]string, len(records))
	for _, rec := range records {
		if _, ok := phones[rec.ID]; ok {
			continue
		}
		phones[rec.ID] = index.Resolve(ctx, rec)
	}
	return phones
}

func render(
	field *domain.Field,
	grid *planning.Grid,
	phones map[types.ID]string,
	now time.Time,
	degraded bool,
	rebuilt bool,
) *Response {
	week := grid.Week()

	days := make([]Day, 0, domain.DaysPerWeek)
	for _, d := range week.Days() {
		days = append(days, Day{Date: types.FormatDate(d), Weekday: d.Weekday()})
	}

	rows := make([]Row, 0, len(grid.Hours()))
	for _, slots := range grid.Rows() {
		if len(slots) == 0 {
			continue
		}
		row := Row{Hour: slots[0].Hour, Cells: make([]Cell, 0, len(slots))}
		for _, s := range slots {
			cell := Cell{
				Date:    s.Date,
				Hour:    s.Hour,
				RowSpan: grid.RowSpan(s.Date, s.Hour),
				IsPast:  grid.IsSlotInPast(s.Date, s.Hour, now),
			}
			if s.IsOccupied() {
				rec := s.Unavailability
				cell.Occupied = true
				cell.Kind = rec.Kind
				cell.Label = planning.Label(rec)
				cell.Description = rec.Description
				cell.TimeRange = grid.TimeRange(s.Date, s.Hour)
				cell.ClientPhone = phones[rec.ID]
				cell.IsFirstHour = grid.IsFirstHourOfSlot(s.Date, s.Hour)
				cell.ShowSlot = grid.ShouldShowSlot(s.Date, s.Hour)
				cell.RecordID = rec.ID
				cell.RecordDate = rec.Date
				cell.SourceID = rec.SourceID
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return &Response{
		Field: Field{
			ID:          field.ID,
			Name:        field.Name,
			Address:     field.Address,
			OpeningTime: field.OpeningOrDefault(),
			ClosingTime: field.ClosingOrDefault(),
		},
		WeekStart:    types.FormatDate(week.Start()),
		WeekEnd:      types.FormatDate(week.End()),
		PreviousWeek: types.FormatDate(week.Previous().Start()),
		NextWeek:     types.FormatDate(week.Next().Start()),
		Days:         days,
		Hours:        grid.Hours(),
		Rows:         rows,
		Degraded:     degraded,
		Rebuilt:      rebuilt,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, terrainapi.ErrNotFound) || errors.Is(err, backendRepo.ErrNotFound)
}
