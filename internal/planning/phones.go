package planning

import (
	"context"
	"errors"
	"sync"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Стратегии разрешения телефона (метка метрики)
const (
	StrategyCache               = "cache"
	StrategySubscriptionDirect  = "subscription_direct"
	StrategySubscriptionClient  = "subscription_client"
	StrategySubscriptionSibling = "subscription_sibling"
	StrategyReservation         = "reservation"
	StrategyRecordID            = "record_id"
	StrategyDeferred            = "deferred"
	StrategyUnresolved          = "unresolved"
)

// Результаты отложенной загрузки (метка метрики)
const (
	lookupResolved  = "resolved"
	lookupNoPhone   = "no_phone"
	lookupFailed    = "failed"
	lookupThrottled = "throttled"
)

// Directory снимок справочных данных, загруженный один раз на построение планинга
type Directory struct {
	Reservations  []domain.Reservation
	Subscriptions []domain.Subscription
	Clients       []domain.Client
}

// IndexOptions настройки индекса телефонов
type IndexOptions struct {
	// Lookup отложенная загрузка броней; nil - отложенное разрешение выключено
	Lookup *ReservationLookup
	// OnResolved вызывается после успешной отложенной загрузки брони
	OnResolved func(domain.Reservation)
}

// PhoneIndex сопоставляет запись о занятости с телефоном клиента.
//
// SourceID на бэкенде означает разное в зависимости от типа брони (ID брони,
// ID абонемента или ID слота абонемента, а для старых записей бывает устаревшим),
// поэтому индекс перебирает все правдоподобные толкования.
// TODO: убрать перебор, когда бэкенд начнет отдавать телефон клиента прямо в записи о занятости.
//
// Индекс строится заново на каждую загрузку планинга. Кэши только пополняются:
// первое успешное значение для ключа не перезаписывается. ID броней и ID
// абонементов на бэкенде пересекаются, поэтому они кэшируются раздельно.
type PhoneIndex struct {
	mu sync.Mutex

	reservations       []domain.Reservation
	subscriptions      []domain.Subscription
	clientPhones       map[types.ID]types.Phone // clientId -> телефон
	reservationPhones  map[types.ID]types.Phone // ID брони -> телефон
	subscriptionPhones map[types.ID]types.Phone // ID абонемента или слота -> телефон
	recordPhones       map[types.ID]types.Phone // ID записи о занятости -> телефон

	// recordsBySource ID записей, ожидающих отложенную загрузку по sourceId
	recordsBySource map[types.ID][]types.ID
	requested       map[types.ID]struct{}
	// finished загрузки, завершившиеся без телефона
	finished map[types.ID]struct{}
	inflight sync.WaitGroup

	lookup     *ReservationLookup
	onResolved func(domain.Reservation)
	changes    chan struct{}

	logger  Logger
	metrics MetricsRecorder
}

// NewPhoneIndex строит индекс по снимку справочника
func NewPhoneIndex(dir Directory, opts IndexOptions, logger Logger, metrics MetricsRecorder) *PhoneIndex {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	ix := &PhoneIndex{
		reservations:    append([]domain.Reservation(nil), dir.Reservations...),
		subscriptions:   append([]domain.Subscription(nil), dir.Subscriptions...),
		clientPhones:       make(map[types.ID]types.Phone, len(dir.Clients)),
		reservationPhones:  make(map[types.ID]types.Phone),
		subscriptionPhones: make(map[types.ID]types.Phone),
		recordPhones:       make(map[types.ID]types.Phone),
		recordsBySource:    make(map[types.ID][]types.ID),
		requested:          make(map[types.ID]struct{}),
		finished:           make(map[types.ID]struct{}),
		lookup:             opts.Lookup,
		onResolved:         opts.OnResolved,
		changes:            make(chan struct{}, 1),
		logger:             logger,
		metrics:            metrics,
	}

	ix.preload(dir.Clients)
	return ix
}

// preload заполняет кэш из справочника: клиенты, разовые брони, абонементы
func (ix *PhoneIndex) preload(clients []domain.Client) {
	for _, c := range clients {
		if !c.ID.IsZero() && !c.Phone.IsEmpty() {
			if _, ok := ix.clientPhones[c.ID]; !ok {
				ix.clientPhones[c.ID] = c.Phone
			}
		}
	}

	for _, r := range ix.reservations {
		if r.ID.IsZero() {
			continue
		}
		if !r.HasPhone() {
			ix.logger.Warn("PhoneIndex: reservation id=%d date=%s has no client phone", r.ID, r.Date)
			continue
		}
		cachePhone(ix.reservationPhones, r.ID, r.ClientPhone)
	}

	for i := range ix.subscriptions {
		sub := &ix.subscriptions[i]
		if sub.ID.IsZero() {
			continue
		}
		phone, _ := ix.subscriptionPhone(sub)
		if phone.IsEmpty() {
			ix.logger.Warn("PhoneIndex: no phone for subscription id=%d client_id=%d", sub.ID, sub.ClientID)
			continue
		}
		cachePhone(ix.subscriptionPhones, sub.ID, phone)
	}
}

// Prime сопоставляет разовые брони с записями до построения сетки:
// сначала по (дата, начало, терраин), затем по sourceId. Телефон кэшируется
// под sourceId и под ID самой записи. Неизвестные sourceId ставятся в
// отложенную загрузку.
func (ix *PhoneIndex) Prime(ctx context.Context, records []domain.Unavailability) {
	ix.mu.Lock()
	var toFetch []types.ID

	for _, rec := range records {
		if !rec.IsPunctual() || rec.SourceID.IsZero() {
			continue
		}

		if match := ix.findReservationBySlot(rec); match != nil {
			if match.HasPhone() {
				cachePhone(ix.reservationPhones, rec.SourceID, match.ClientPhone)
				cachePhone(ix.recordPhones, rec.ID, match.ClientPhone)
			}
			continue
		}

		if res := ix.findReservation(rec.SourceID); res != nil {
			if res.HasPhone() {
				cachePhone(ix.reservationPhones, rec.SourceID, res.ClientPhone)
				cachePhone(ix.recordPhones, rec.ID, res.ClientPhone)
			}
			continue
		}

		if ix.markDeferred(rec.SourceID, rec.ID) {
			toFetch = append(toFetch, rec.SourceID)
		}
	}
	ix.mu.Unlock()

	for _, id := range toFetch {
		ix.startLookup(ctx, id)
	}
}

// Resolve возвращает телефон клиента для записи или пустую строку.
//
// Порядок (первое попадание выигрывает):
// 1. кэш по sourceId в пространстве ID своего типа брони
// 2. абонемент: по ID абонемента или по ID слота; телефон абонемента,
// затем через клиента, затем через другой абонемент того же клиента
// 3. разовая бронь по ID; если брони нет - отложенная загрузка
// 4. кэш по ID самой записи
func (ix *PhoneIndex) Resolve(ctx context.Context, rec domain.Unavailability) string {
	ix.mu.Lock()
	phone, strategy, fetchID := ix.resolveLocked(rec)
	ix.mu.Unlock()

	if !fetchID.IsZero() {
		ix.startLookup(ctx, fetchID)
	}

	ix.metrics.RecordPhoneResolution(strategy)
	if phone.IsEmpty() && strategy == StrategyUnresolved {
		ix.logger.Warn("Resolve: no client phone for unavailability id=%d source_id=%d kind=%s date=%s",
			rec.ID, rec.SourceID, rec.Kind, rec.Date)
	}
	return phone.String()
}

func (ix *PhoneIndex) resolveLocked(rec domain.Unavailability) (types.Phone, string, types.ID) {
	// 1. Прямое попадание в кэш
	if cache := ix.sourceCache(rec.Kind); cache != nil && !rec.SourceID.IsZero() {
		if phone, ok := cache[rec.SourceID]; ok {
			return phone, StrategyCache, 0
		}
	}

	var fetchID types.ID

	switch rec.Kind {
	case domain.KindSubscription:
		// 2. sourceId может быть ID абонемента или ID его слота
		sub := ix.findSubscription(rec.SourceID)
		if sub != nil {
			if phone, strategy := ix.subscriptionPhone(sub); !phone.IsEmpty() {
				cachePhone(ix.subscriptionPhones, rec.SourceID, phone)
				if sub.ID != rec.SourceID {
					cachePhone(ix.subscriptionPhones, sub.ID, phone)
				}
				return phone, strategy, 0
			}
		}

	case domain.KindPunctualReservation:
		// 3. Разовая бронь
		res := ix.findReservation(rec.SourceID)
		switch {
		case res != nil && res.HasPhone():
			cachePhone(ix.reservationPhones, rec.SourceID, res.ClientPhone)
			return res.ClientPhone, StrategyReservation, 0
		case res != nil:
			ix.logger.Warn("Resolve: reservation id=%d found without client phone (date=%s)", rec.SourceID, rec.Date)
		case !rec.SourceID.IsZero():
			if ix.markDeferred(rec.SourceID, rec.ID) {
				fetchID = rec.SourceID
			}
		}
	}

	// 4. Кэш по ID записи
	if phone, ok := ix.recordPhones[rec.ID]; ok && !rec.ID.IsZero() {
		return phone, StrategyRecordID, fetchID
	}

	if ix.isPending(rec.SourceID) {
		return "", StrategyDeferred, fetchID
	}
	return "", StrategyUnresolved, fetchID
}

// subscriptionPhone телефон абонемента: прямой, через клиента, через другой абонемент клиента
func (ix *PhoneIndex) subscriptionPhone(sub *domain.Subscription) (types.Phone, string) {
	if sub.HasPhone() {
		return sub.ClientPhone, StrategySubscriptionDirect
	}
	if sub.ClientID.IsZero() {
		return "", StrategyUnresolved
	}
	if phone, ok := ix.clientPhones[sub.ClientID]; ok {
		return phone, StrategySubscriptionClient
	}
	for i := range ix.subscriptions {
		other := &ix.subscriptions[i]
		if other.ClientID == sub.ClientID && other.HasPhone() {
			return other.ClientPhone, StrategySubscriptionSibling
		}
	}
	return "", StrategyUnresolved
}

func (ix *PhoneIndex) findSubscription(id types.ID) *domain.Subscription {
	if id.IsZero() {
		return nil
	}
	for i := range ix.subscriptions {
		if ix.subscriptions[i].ID == id {
			return &ix.subscriptions[i]
		}
	}
	for i := range ix.subscriptions {
		if ix.subscriptions[i].HasScheduleSlot(id) {
			return &ix.subscriptions[i]
		}
	}
	return nil
}

func (ix *PhoneIndex) findReservation(id types.ID) *domain.Reservation {
	if id.IsZero() {
		return nil
	}
	for i := range ix.reservations {
		if ix.reservations[i].ID == id {
			return &ix.reservations[i]
		}
	}
	return nil
}

func (ix *PhoneIndex) findReservationBySlot(rec domain.Unavailability) *domain.Reservation {
	for i := range ix.reservations {
		r := &ix.reservations[i]
		if r.Date == rec.Date && r.StartTime.String() == rec.StartTime.String() && r.FieldID == rec.FieldID {
			return r
		}
	}
	return nil
}

// sourceCache кэш, в котором sourceId записи имеет смысл
func (ix *PhoneIndex) sourceCache(kind domain.BookingKind) map[types.ID]types.Phone {
	switch kind {
	case domain.KindSubscription:
		return ix.subscriptionPhones
	case domain.KindPunctualReservation:
		return ix.reservationPhones
	default:
		return nil
	}
}

// cachePhone кэширует телефон, если ключ еще не занят
func cachePhone(cache map[types.ID]types.Phone, id types.ID, phone types.Phone) {
	if id.IsZero() || phone.IsEmpty() {
		return
	}
	if _, ok := cache[id]; ok {
		return
	}
	cache[id] = phone
}

// markDeferred регистрирует запись, ждущую загрузку sourceId.
// Возвращает true, если загрузку нужно запустить (первый запрос этого ID).
func (ix *PhoneIndex) markDeferred(sourceID, recordID types.ID) bool {
	if ix.lookup == nil {
		return false
	}
	if !recordID.IsZero() {
		ix.recordsBySource[sourceID] = appendUnique(ix.recordsBySource[sourceID], recordID)
	}
	if _, ok := ix.requested[sourceID]; ok {
		return false
	}
	ix.requested[sourceID] = struct{}{}
	ix.inflight.Add(1)
	return true
}

// isPending загрузка sourceId запущена и еще не завершилась без телефона
func (ix *PhoneIndex) isPending(sourceID types.ID) bool {
	if sourceID.IsZero() {
		return false
	}
	if _, ok := ix.requested[sourceID]; !ok {
		return false
	}
	_, done := ix.finished[sourceID]
	return !done
}

func (ix *PhoneIndex) markFinished(sourceID types.ID) {
	ix.mu.Lock()
	ix.finished[sourceID] = struct{}{}
	ix.mu.Unlock()
}

// startLookup запускает одноразовую фоновую загрузку брони.
// Загрузка не отменяется вместе с запросом: результат только пополняет кэш.
func (ix *PhoneIndex) startLookup(ctx context.Context, id types.ID) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer ix.inflight.Done()

		res, err := ix.lookup.Fetch(ctx, id)
		if err != nil {
			ix.markFinished(id)
			if errors.Is(err, ErrLookupThrottled) {
				ix.metrics.RecordDeferredLookup(lookupThrottled)
			} else {
				ix.metrics.RecordDeferredLookup(lookupFailed)
			}
			ix.logger.Warn("PhoneIndex: deferred lookup of reservation id=%d failed: %v", id, err)
			return
		}

		if !res.HasPhone() {
			ix.markFinished(id)
			ix.metrics.RecordDeferredLookup(lookupNoPhone)
			ix.logger.Warn("PhoneIndex: deferred reservation id=%d has no client phone", id)
			return
		}

		ix.mu.Lock()
		if ix.findReservation(res.ID) == nil {
			ix.reservations = append(ix.reservations, *res)
		}
		cachePhone(ix.reservationPhones, id, res.ClientPhone)
		cachePhone(ix.reservationPhones, res.ID, res.ClientPhone)
		for _, recordID := range ix.recordsBySource[id] {
			cachePhone(ix.recordPhones, recordID, res.ClientPhone)
		}
		ix.mu.Unlock()

		ix.metrics.RecordDeferredLookup(lookupResolved)
		ix.logger.Info("PhoneIndex: deferred lookup resolved reservation id=%d (date=%s)", res.ID, res.Date)

		if ix.onResolved != nil {
			ix.onResolved(*res)
		}
		ix.notify()
	}()
}

func (ix *PhoneIndex) notify() {
	select {
	case ix.changes <- struct{}{}:
	default:
	}
}

// Changes сигнал "данные изменились": после отложенной загрузки сетку нужно перестроить
func (ix *PhoneIndex) Changes() <-chan struct{} {
	return ix.changes
}

// Wait ждет завершения всех запущенных отложенных загрузок
func (ix *PhoneIndex) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ix.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func appendUnique(ids []types.ID, id types.ID) []types.ID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
