package terrainapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Client клиент для работы с REST API бэкенда терраинов
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента.
// token - статический bearer токен, пустая строка - без авторизации.
func NewClient(baseURL string, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListFields получает терраины владельца; ownerID = 0 - все терраины
func (c *Client) ListFields(ctx context.Context, ownerID types.ID) ([]domain.Field, error) {
	var terrains []Terrain
	if err := c.get(ctx, "/terrains", &terrains); err != nil {
		return nil, err
	}

	fields := make([]domain.Field, 0, len(terrains))
	for _, t := range terrains {
		if !ownerID.IsZero() && t.ProprietaireID != ownerID {
			continue
		}
		fields = append(fields, t.toDomain())
	}
	return fields, nil
}

// ListReservations получает все разовые брони
func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	var items []Reservation
	if err := c.get(ctx, "/reservations", &items); err != nil {
		return nil, err
	}
	return convertAll(items, Reservation.toDomain), nil
}

// GetReservation получает одну разовую бронь по ID
func (c *Client) GetReservation(ctx context.Context, id types.ID) (*domain.Reservation, error) {
	var item Reservation
	if err := c.get(ctx, fmt.Sprintf("/reservations/%d", id), &item); err != nil {
		return nil, err
	}
	res := item.toDomain()
	return &res, nil
}

// ListSubscriptions получает все абонементы вместе с их слотами
func (c *Client) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var items []Abonnement
	if err := c.get(ctx, "/abonnements", &items); err != nil {
		return nil, err
	}
	return convertAll(items, Abonnement.toDomain), nil
}

// ListClients получает всех клиентов
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var items []ClientAbonne
	if err := c.get(ctx, "/clients", &items); err != nil {
		return nil, err
	}
	return convertAll(items, ClientAbonne.toDomain), nil
}

// ListUnavailabilities получает записи о занятости терраина
func (c *Client) ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error) {
	var items []Indisponible
	if err := c.get(ctx, fmt.Sprintf("/indisponibles/terrain/%d", fieldID), &items); err != nil {
		return nil, err
	}
	return convertAll(items, Indisponible.toDomain), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("GET %s failed after %s: %v", path, time.Since(started), err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d for %s", ErrUnauthorized, resp.StatusCode, path)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response from %s: %v", ErrInvalidResponse, path, err)
	}

	c.log.Info("GET %s ok in %s", path, time.Since(started))
	return nil
}
