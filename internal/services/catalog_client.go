package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogClient talks to the marketplace catalog service, which owns cars,
// buyers and dealers. Escrow stores only their ids and asks the catalog
// for the rest.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewCatalogClient(baseURL string, log *zap.Logger) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type CarInfo struct {
	ID       uuid.UUID       `json:"id"`
	DealerID uuid.UUID       `json:"dealer_id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"` // available / pending_sale / sold
}

type BuyerInfo struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	Verified bool      `json:"verified"`

	// Refund destination, present once the buyer has added bank details.
	BankCode      *string `json:"bank_code,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`
}

type DealerInfo struct {
	ID            uuid.UUID `json:"id"`
	BusinessName  string    `json:"business_name"`
	BankCode      *string   `json:"bank_code,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	AccountName   *string   `json:"account_name,omitempty"`
}

func (c *CatalogClient) GetCar(ctx context.Context, carID uuid.UUID) (*CarInfo, error) {
	var car CarInfo
	if err := c.get(ctx, fmt.Sprintf("/internal/cars/%s", carID), &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *CatalogClient) GetBuyer(ctx context.Context, buyerID uuid.UUID) (*BuyerInfo, error) {
	var buyer BuyerInfo
	if err := c.get(ctx, fmt.Sprintf("/internal/buyers/%s", buyerID), &buyer); err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (c *CatalogClient) GetDealer(ctx context.Context, dealerID uuid.UUID) (*DealerInfo, error) {
	var dealer DealerInfo
	if err := c.get(ctx, fmt.Sprintf("/internal/dealers/%s", dealerID), &dealer); err != nil {
		return nil, err
	}
	return &dealer, nil
}

// MarkCarPendingSale tells the catalog to hold the car while an escrow is
// active. Failures are logged but do not block the escrow flow.
func (c *CatalogClient) MarkCarPendingSale(ctx context.Context, carID uuid.UUID) {
	if err := c.post(ctx, fmt.Sprintf("/internal/cars/%s/pending_sale", carID)); err != nil {
		c.log.Warn("failed to mark car pending sale", zap.String("car_id", carID.String()), zap.Error(err))
	}
}

// MarkCarSold tells the catalog the purchase completed.
func (c *CatalogClient) MarkCarSold(ctx context.Context, carID uuid.UUID) {
	if err := c.post(ctx, fmt.Sprintf("/internal/cars/%s/sold", carID)); err != nil {
		c.log.Warn("failed to mark car sold", zap.String("car_id", carID.String()), zap.Error(err))
	}
}

// MarkCarAvailable releases the catalog hold after a cancel or refund.
func (c *CatalogClient) MarkCarAvailable(ctx context.Context, carID uuid.UUID) {
	if err := c.post(ctx, fmt.Sprintf("/internal/cars/%s/available", carID)); err != nil {
		c.log.Warn("failed to mark car available", zap.String("car_id", carID.String()), zap.Error(err))
	}
}

func (c *CatalogClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog service returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *CatalogClient) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog service returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
