package get_planning

import (
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Request модель запроса недельного планинга
type Request struct {
	FieldID types.ID  // ID терраина
	OwnerID types.ID  // ID владельца; 0 - поиск среди всех терраинов
	Date    time.Time // Любая дата внутри недели; нулевая - текущая неделя
	Wait    bool      // Дождаться отложенных загрузок телефонов и вернуть перестроенную сетку
}

// Options настройки построения планинга
type Options struct {
	DefaultOpening         types.TimeString // время открытия терраина без расписания
	DefaultClosing         types.TimeString // время закрытия терраина без расписания
	NightShiftLimitMinutes int
	WaitTimeout            time.Duration
}

// Response модель ответа с сеткой планинга
type Response struct {
	Field        Field
	WeekStart    string
	WeekEnd      string
	PreviousWeek string
	NextWeek     string
	Days         []Day
	Hours        []types.TimeString
	Rows         []Row
	Degraded     bool // часть справочника не загрузилась, телефоны могут отсутствовать
	Rebuilt      bool // сетка перестроена после отложенных загрузок
}

// Field модель терраина в ответе
type Field struct {
	ID          types.ID
	Name        string
	Address     string
	OpeningTime types.TimeString
	ClosingTime types.TimeString
}

// Day колонка планинга
type Day struct {
	Date    string
	Weekday time.Weekday
}

// Row строка планинга (один час)
type Row struct {
	Hour  types.TimeString
	Cells []Cell
}

// Cell ячейка планинга
type Cell struct {
	Date        string
	Hour        types.TimeString
	Occupied    bool
	Kind        domain.BookingKind
	Label       string
	Description string
	TimeRange   string
	ClientPhone string
	IsFirstHour bool
	ShowSlot    bool
	IsPast      bool
	RowSpan     int
	RecordID    types.ID
	RecordDate  string
	SourceID    types.ID
}
