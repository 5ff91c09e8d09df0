package terrainapi

import (
	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Terrain модель терраина из бэкенда
type Terrain struct {
	ID             types.ID         `json:"id"`
	Nom            string           `json:"nom"`
	Adresse        string           `json:"adresse"`
	ProprietaireID types.ID         `json:"proprietaireId"`
	HeureOuverture types.TimeString `json:"heureOuverture"`
	HeureFermeture types.TimeString `json:"heureFermeture"`
}

// Reservation модель разовой брони
type Reservation struct {
	ID              types.ID         `json:"id"`
	Date            string           `json:"date"`
	HeureDebut      types.TimeString `json:"heureDebut"`
	HeureFin        types.TimeString `json:"heureFin"`
	Prix            float64          `json:"prix"`
	ClientTelephone types.Phone      `json:"clientTelephone"`
	TerrainID       types.ID         `json:"terrainId"`
}

// Abonnement модель абонемента
type Abonnement struct {
	ID              types.ID    `json:"id"`
	TerrainID       types.ID    `json:"terrainId"`
	ClientID        types.ID    `json:"clientId"`
	ClientTelephone types.Phone `json:"clientTelephone"`
	DateDebut       string      `json:"dateDebut"`
	DateFin         string      `json:"dateFin"`
	PrixTotal       float64     `json:"prixTotal"`
	Status          string      `json:"status"`
	Horaires        []Horaire   `json:"horaires"`
}

// Horaire еженедельный слот абонемента
type Horaire struct {
	ID           types.ID         `json:"id"`
	AbonnementID types.ID         `json:"abonnementId"`
	JourSemaine  string           `json:"jourSemaine"`
	HeureDebut   types.TimeString `json:"heureDebut"`
	HeureFin     types.TimeString `json:"heureFin"`
	PrixHeure    float64          `json:"prixHeure"`
}

// ClientAbonne модель клиента-абонента
type ClientAbonne struct {
	ID        types.ID    `json:"id"`
	Nom       string      `json:"nom"`
	Prenom    string      `json:"prenom"`
	Telephone types.Phone `json:"telephone"`
}

// Indisponible запись о занятости терраина
type Indisponible struct {
	ID              types.ID         `json:"id"`
	TerrainID       types.ID         `json:"terrainId"`
	Date            string           `json:"date"`
	HeureDebut      types.TimeString `json:"heureDebut"`
	HeureFin        types.TimeString `json:"heureFin"`
	TypeReservation string           `json:"typeReservation"`
	SourceID        types.ID         `json:"sourceId"`
	Description     string           `json:"description"`
}

// ErrorResponse модель ошибки от бэкенда
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t Terrain) toDomain() domain.Field {
	return domain.Field{
		ID:          t.ID,
		Name:        t.Nom,
		Address:     t.Adresse,
		OwnerID:     t.ProprietaireID,
		OpeningTime: t.HeureOuverture,
		ClosingTime: t.HeureFermeture,
	}
}

func (r Reservation) toDomain() domain.Reservation {
	return domain.Reservation{
		ID:          r.ID,
		Date:        r.Date,
		StartTime:   r.HeureDebut,
		EndTime:     r.HeureFin,
		Price:       r.Prix,
		ClientPhone: r.ClientTelephone,
		FieldID:     r.TerrainID,
	}
}

func (a Abonnement) toDomain() domain.Subscription {
	schedule := make([]domain.ScheduleSlot, 0, len(a.Horaires))
	for _, h := range a.Horaires {
		schedule = append(schedule, domain.ScheduleSlot{
			ID:             h.ID,
			SubscriptionID: h.AbonnementID,
			Weekday:        h.JourSemaine,
			StartTime:      h.HeureDebut,
			EndTime:        h.HeureFin,
			HourlyPrice:    h.PrixHeure,
		})
	}

	return domain.Subscription{
		ID:          a.ID,
		FieldID:     a.TerrainID,
		ClientID:    a.ClientID,
		ClientPhone: a.ClientTelephone,
		StartDate:   a.DateDebut,
		EndDate:     a.DateFin,
		TotalPrice:  a.PrixTotal,
		Status:      domain.SubscriptionStatus(a.Status),
		Schedule:    schedule,
	}
}

func (c ClientAbonne) toDomain() domain.Client {
	return domain.Client{
		ID:        c.ID,
		LastName:  c.Nom,
		FirstName: c.Prenom,
		Phone:     c.Telephone,
	}
}

func (i Indisponible) toDomain() domain.Unavailability {
	return domain.Unavailability{
		ID:          i.ID,
		FieldID:     i.TerrainID,
		Date:        i.Date,
		StartTime:   i.HeureDebut,
		EndTime:     i.HeureFin,
		Kind:        domain.ParseBookingKind(i.TypeReservation),
		SourceID:    i.SourceID,
		Description: i.Description,
	}
}

func convertAll[T any, D any](items []T, conv func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return out
}
