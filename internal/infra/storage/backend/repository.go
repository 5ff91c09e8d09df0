package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Repository читает данные напрямую из базы бэкенда терраинов (только чтение).
// Используется вместо REST API, когда сервис развернут рядом с базой.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListFields получает терраины владельца; ownerID = 0 - все терраины
func (r *Repository) ListFields(ctx context.Context, ownerID types.ID) ([]domain.Field, error) {
	q := psqlbuilder.Select(
		"id",
		"nom",
		"adresse",
		"proprietaire_id",
		"heure_ouverture",
		"heure_fermeture",
	).
		From("terrains").
		OrderBy("id")

	if !ownerID.IsZero() {
		q = q.Where(squirrel.Eq{"proprietaire_id": ownerID.Int64()})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFields - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFields - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	fields := make([]domain.Field, 0)
	for rows.Next() {
		var (
			f       domain.Field
			address sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &address, &f.OwnerID, &f.OpeningTime, &f.ClosingTime); err != nil {
			return nil, fmt.Errorf("%w: ListFields - scan: %v", ErrScanRow, err)
		}
		f.Address = address.String
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListFields - rows: %v", ErrScanRow, err)
	}

	return fields, nil
}

var reservationColumns = []string{
	"id",
	"date::text",
	"heure_debut",
	"heure_fin",
	"prix",
	"client_telephone",
	"terrain_id",
}

// ListReservations получает все разовые брони
func (r *Repository) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("date", "heure_debut").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListReservations - scan: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListReservations - rows: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// GetReservation получает разовую бронь по ID
func (r *Repository) GetReservation(ctx context.Context, id types.ID) (*domain.Reservation, error) {
	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id.Int64()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation id=%d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: GetReservation - scan: %v", ErrScanRow, err)
	}

	return &res, nil
}

// ListSubscriptions получает все абонементы вместе со слотами
func (r *Repository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"terrain_id",
		"client_id",
		"date_debut::text",
		"COALESCE(date_fin::text, '')",
		"prix_total",
		"status",
	).
		From("abonnements").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubscriptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubscriptions - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	subs := make([]domain.Subscription, 0)
	for rows.Next() {
		var (
			s      domain.Subscription
			status sql.NullString
			price  sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.FieldID, &s.ClientID, &s.StartDate, &s.EndDate, &price, &status); err != nil {
			return nil, fmt.Errorf("%w: ListSubscriptions - scan: %v", ErrScanRow, err)
		}
		s.TotalPrice = price.Float64
		s.Status = domain.SubscriptionStatus(status.String)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSubscriptions - rows: %v", ErrScanRow, err)
	}

	schedule, err := r.listScheduleSlots(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		subs[i].Schedule = schedule[subs[i].ID]
	}

	return subs, nil
}

// listScheduleSlots получает все слоты абонементов, сгруппированные по абонементу
func (r *Repository) listScheduleSlots(ctx context.Context) (map[types.ID][]domain.ScheduleSlot, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"abonnement_id",
		"jour_semaine",
		"heure_debut",
		"heure_fin",
		"prix_heure",
	).
		From("abonnement_horaires").
		OrderBy("abonnement_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listScheduleSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listScheduleSlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make(map[types.ID][]domain.ScheduleSlot)
	for rows.Next() {
		var (
			slot  domain.ScheduleSlot
			price sql.NullFloat64
		)
		if err := rows.Scan(&slot.ID, &slot.SubscriptionID, &slot.Weekday, &slot.StartTime, &slot.EndTime, &price); err != nil {
			return nil, fmt.Errorf("%w: listScheduleSlots - scan: %v", ErrScanRow, err)
		}
		slot.HourlyPrice = price.Float64
		out[slot.SubscriptionID] = append(out[slot.SubscriptionID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listScheduleSlots - rows: %v", ErrScanRow, err)
	}

	return out, nil
}

// ListClients получает всех клиентов
func (r *Repository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query, args, err := psqlbuilder.Select("id", "nom", "prenom", "telephone").
		From("clients").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClients - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClients - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.LastName, &c.FirstName, &c.Phone); err != nil {
			return nil, fmt.Errorf("%w: ListClients - scan: %v", ErrScanRow, err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClients - rows: %v", ErrScanRow, err)
	}

	return clients, nil
}

// ListUnavailabilities получает записи о занятости терраина
func (r *Repository) ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"terrain_id",
		"date::text",
		"heure_debut",
		"heure_fin",
		"type_reservation",
		"source_id",
		"description",
	).
		From("indisponibles").
		Where(squirrel.Eq{"terrain_id": fieldID.Int64()}).
		OrderBy("date", "heure_debut").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnavailabilities - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnavailabilities - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.Unavailability, 0)
	for rows.Next() {
		var (
			u           domain.Unavailability
			kind        string
			description sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.FieldID, &u.Date, &u.StartTime, &u.EndTime, &kind, &u.SourceID, &description); err != nil {
			return nil, fmt.Errorf("%w: ListUnavailabilities - scan: %v", ErrScanRow, err)
		}
		u.Kind = domain.ParseBookingKind(kind)
		u.Description = description.String
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnavailabilities - rows: %v", ErrScanRow, err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row scanner) (domain.Reservation, error) {
	var (
		res   domain.Reservation
		price sql.NullFloat64
	)
	err := row.Scan(&res.ID, &res.Date, &res.StartTime, &res.EndTime, &price, &res.ClientPhone, &res.FieldID)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.Price = price.Float64
	return res, nil
}
