package get_planning

import (
	"strconv"
	"time"

	getPlanning "github.com/m04kA/SMC-PlanningService/internal/usecase/get_planning"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// PlanningResponse HTTP response model
type PlanningResponse struct {
	Field        FieldInfo `json:"terrain"`
	WeekStart    string    `json:"weekStart"`
	WeekEnd      string    `json:"weekEnd"`
	PreviousWeek string    `json:"previousWeek"`
	NextWeek     string    `json:"nextWeek"`
	Days         []Day     `json:"days"`
	Hours        []string  `json:"hours"`
	Rows         []Row     `json:"rows"`
	Degraded     bool      `json:"degraded"`
	Rebuilt      bool      `json:"rebuilt"`
}

// FieldInfo модель терраина
type FieldInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"nom"`
	Address     string `json:"adresse,omitempty"`
	OpeningTime string `json:"heureOuverture"`
	ClosingTime string `json:"heureFermeture"`
}

// Day колонка планинга
type Day struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"` // 1 = понедельник ... 7 = воскресенье
}

// Row строка планинга
type Row struct {
	Hour  string `json:"hour"`
	Cells []Cell `json:"cells"`
}

// Cell ячейка планинга
type Cell struct {
	Date        string `json:"date"`
	Hour        string `json:"hour"`
	Occupied    bool   `json:"occupied"`
	Kind        string `json:"kind,omitempty"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	TimeRange   string `json:"timeRange,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	IsFirstHour bool   `json:"isFirstHour"`
	ShowSlot    bool   `json:"showSlot"`
	IsPast      bool   `json:"isPast"`
	RowSpan     int    `json:"rowSpan"`
	RecordID    int64  `json:"indisponibleId,omitempty"`
	RecordDate  string `json:"recordDate,omitempty"`
	SourceID    int64  `json:"sourceId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getPlanning.Response) *PlanningResponse {
	days := make([]Day, len(resp.Days))
	for i, d := range resp.Days {
		days[i] = Day{Date: d.Date, Weekday: isoWeekday(d.Weekday)}
	}

	hours := make([]string, len(resp.Hours))
	for i, h := range resp.Hours {
		hours[i] = h.String()
	}

	rows := make([]Row, len(resp.Rows))
	for i, row := range resp.Rows {
		cells := make([]Cell, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = Cell{
				Date:        c.Date,
				Hour:        c.Hour.String(),
				Occupied:    c.Occupied,
				Kind:        string(c.Kind),
				Label:       c.Label,
				Description: c.Description,
				TimeRange:   c.TimeRange,
				ClientPhone: c.ClientPhone,
				IsFirstHour: c.IsFirstHour,
				ShowSlot:    c.ShowSlot,
				IsPast:      c.IsPast,
				RowSpan:     c.RowSpan,
				RecordID:    c.RecordID.Int64(),
				RecordDate:  c.RecordDate,
				SourceID:    c.SourceID.Int64(),
			}
		}
		rows[i] = Row{Hour: row.Hour.String(), Cells: cells}
	}

	return &PlanningResponse{
		Field: FieldInfo{
			ID:          resp.Field.ID.Int64(),
			Name:        resp.Field.Name,
			Address:     resp.Field.Address,
			OpeningTime: resp.Field.OpeningTime.String(),
			ClosingTime: resp.Field.ClosingTime.String(),
		},
		WeekStart:    resp.WeekStart,
		WeekEnd:      resp.WeekEnd,
		PreviousWeek: resp.PreviousWeek,
		NextWeek:     resp.NextWeek,
		Days:         days,
		Hours:        hours,
		Rows:         rows,
		Degraded:     resp.Degraded,
		Rebuilt:      resp.Rebuilt,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(fieldID int64, ownerIDStr, weekStr, waitStr string) (*getPlanning.Request, error) {
	req := &getPlanning.Request{FieldID: types.ID(fieldID)}

	if ownerIDStr != "" {
		ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64)
		if err != nil {
			return nil, errInvalidOwnerID
		}
		req.OwnerID = types.ID(ownerID)
	}

	if weekStr != "" {
		date, err := types.ParseDate(weekStr)
		if err != nil {
			return nil, errInvalidWeek
		}
		req.Date = date
	}

	if waitStr != "" {
		wait, err := strconv.ParseBool(waitStr)
		if err != nil {
			return nil, errInvalidWait
		}
		req.Wait = wait
	}

	return req, nil
}

func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
