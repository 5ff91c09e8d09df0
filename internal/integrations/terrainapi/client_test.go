package terrainapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/logger"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", time.Second, logger.Nop())
}

func TestListUnavailabilities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indisponibles/terrain/3", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"terrainId":3,"date":"2025-06-02","heureDebut":"23:00:00","heureFin":"01:00:00",
			 "typeReservation":"RESERVATION_PONCTUELLE","sourceId":"42","description":"Réservation"},
			{"id":"2","terrainId":3,"date":"2025-06-03","heureDebut":"18:00","heureFin":"19:00",
			 "typeReservation":"ABONNEMENT","sourceId":7,"description":"Abonnement"}
		]`))
	})

	items, err := client.ListUnavailabilities(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.Unavailability{
		ID: 1, FieldID: 3, Date: "2025-06-02", StartTime: "23:00", EndTime: "01:00",
		Kind: domain.KindPunctualReservation, SourceID: 42, Description: "Réservation",
	}, items[0])
	assert.Equal(t, types.ID(2), items[1].ID)
	assert.Equal(t, domain.KindSubscription, items[1].Kind)
}

func TestListSubscriptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/abonnements", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":5,"terrainId":3,"clientId":9,"clientTelephone":null,
			"dateDebut":"2025-01-01","dateFin":"2025-12-31","status":"ACTIVE",
			"horaires":[{"id":51,"jourSemaine":"LUNDI","heureDebut":"18:00","prixHeure":300}]}]`))
	})

	subs, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].HasPhone())
	assert.Equal(t, domain.SubscriptionActive, subs[0].Status)
	assert.True(t, subs[0].HasScheduleSlot(51))
}

func TestListFields_FiltersByOwner(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"nom":"A","proprietaireId":10,"heureOuverture":"08:00","heureFermeture":"02:00"},
			{"id":2,"nom":"B","proprietaireId":11,"heureOuverture":"09:00","heureFermeture":"23:00"}
		]`))
	})

	fields, err := client.ListFields(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "A", fields[0].Name)
	assert.True(t, fields[0].ClosesAfterMidnight())

	all, err := client.ListFields(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetReservation_StatusCodes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, body: `{"code":500,"message":"db down"}`, wantErr: ErrInvalidResponse},
		{name: "bad json", status: http.StatusOK, body: `{"id":`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := client.GetReservation(context.Background(), 42)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetReservation_OK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservations/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"date":"2025-06-02","heureDebut":"23:00","prix":200,"clientTelephone":612345678,"terrainId":3}`))
	})

	res, err := client.GetReservation(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, types.Phone("612345678"), res.ClientPhone)
	assert.Equal(t, types.ID(3), res.FieldID)
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 100*time.Millisecond, logger.Nop())

	_, err := client.ListClients(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
