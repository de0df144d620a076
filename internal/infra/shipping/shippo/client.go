// Package shippo implements the CarrierService interface against the Shippo
// REST API.
package shippo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.goshippo.com"

	// Label transactions are asynchronous; poll until a terminal status or
	// until the budget runs out (15 attempts, 2s apart, ~30s worst case).
	pollInterval = 2 * time.Second
	pollAttempts = 15
)

type client struct {
	http   *resty.Client
	logger *slog.Logger

	// sleep is swapped out in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCarrierService builds a Shippo-backed carrier service from config.
func NewCarrierService(cfg *config.Config, logger *slog.Logger) service.CarrierService {
	baseURL := cfg.Shippo.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "ShippoToken "+cfg.Shippo.Token).
		SetHeader("Content-Type", "application/json")

	return &client{
		http:   httpClient,
		logger: logger,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type wireAddress struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

func toWireAddress(a entity.Address) wireAddress {
	return wireAddress{
		Name:    a.Name,
		Street1: a.Line1,
		Street2: a.Line2,
		City:    a.City,
		State:   a.State,
		Zip:     a.PostalCode,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

type wireParcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type shipmentRequest struct {
	AddressTo   wireAddress  `json:"address_to"`
	AddressFrom wireAddress  `json:"address_from"`
	Parcels     []wireParcel `json:"parcels"`
	Async       bool         `json:"async"`
}

type wireRate struct {
	ObjectID      string `json:"object_id"`
	Provider      string `json:"provider"`
	Amount        string `json:"amount"`
	EstimatedDays int    `json:"estimated_days"`
	ServiceLevel  struct {
		Name string `json:"name"`
	} `json:"servicelevel"`
}

type shipmentResponse struct {
	ObjectID string     `json:"object_id"`
	Rates    []wireRate `json:"rates"`
}

func (c *client) Quote(ctx context.Context, to, from entity.Address, parcel entity.Parcel) (*entity.Shipment, error) {
	body := shipmentRequest{
		AddressTo:   toWireAddress(to),
		AddressFrom: toWireAddress(from),
		Parcels: []wireParcel{{
			Length:       formatDim(parcel.LengthIn),
			Width:        formatDim(parcel.WidthIn),
			Height:       formatDim(parcel.HeightIn),
			DistanceUnit: "in",
			Weight:       formatDim(parcel.WeightOz),
			MassUnit:     "oz",
		}},
		Async: false,
	}

	var out shipmentResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/shipments/")
	if err != nil {
		return nil, errors.Wrap(err, "request shipment quote")
	}

	if resp.IsError() {
		return nil, errors.Wrapf(service.ErrCarrierUnavailable,
			"shipment quote returned %d: %s", resp.StatusCode(), resp.String())
	}

	rates := make([]entity.RateQuote, 0, len(out.Rates))
	for _, r := range out.Rates {
		rates = append(rates, entity.RateQuote{
			RateID:        r.ObjectID,
			Carrier:       r.Provider,
			Service:       r.ServiceLevel.Name,
			Amount:        r.Amount,
			EstimatedDays: r.EstimatedDays,
		})
	}

	return &entity.Shipment{
		ShipmentID: out.ObjectID,
		Rates:      rates,
	}, nil
}

type transactionRequest struct {
	Rate          string `json:"rate"`
	LabelFileType string `json:"label_file_type"`
}

type transactionResponse struct {
	ObjectID       string `json:"object_id"`
	Status         string `json:"status"`
	LabelURL       string `json:"label_url"`
	TrackingNumber string `json:"tracking_number"`
	Messages       []struct {
		Text string `json:"text"`
	} `json:"messages"`
}

func (c *client) Purchase(ctx context.Context, rate entity.RateQuote) (*entity.PurchasedLabel, error) {
	var tx transactionResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(transactionRequest{Rate: rate.RateID, LabelFileType: "PDF"}).
		SetResult(&tx).
		Post("/transactions/")
	if err != nil {
		return nil, errors.Wrap(err, "create label transaction")
	}

	if resp.IsError() {
		return nil, errors.Wrapf(service.ErrLabelPurchaseFailed,
			"label transaction returned %d: %s", resp.StatusCode(), resp.String())
	}

	txID := tx.ObjectID

	// Every response, including the last poll's, goes through the status
	// check before the attempt budget is enforced.
	for attempt := 0; ; attempt++ {
		switch tx.Status {
		case "SUCCESS":
			return &entity.PurchasedLabel{
				LabelURL:       tx.LabelURL,
				TrackingNumber: tx.TrackingNumber,
				Carrier:        rate.Carrier,
				Service:        rate.Service,
			}, nil
		case "ERROR":
			return nil, errors.Wrap(service.ErrLabelPurchaseFailed, transactionReason(tx))
		case "QUEUED", "WAITING":
			// Still processing.
		default:
			return nil, errors.Wrapf(service.ErrLabelPurchaseFailed,
				"unexpected transaction status %q", tx.Status)
		}

		if attempt == pollAttempts {
			return nil, errors.Wrapf(service.ErrLabelPurchaseTimedOut,
				"transaction %s not terminal after %d attempts", txID, pollAttempts)
		}

		if err := c.sleep(ctx, pollInterval); err != nil {
			return nil, err
		}

		c.logger.Debug("polling label transaction",
			slog.String("transaction_id", txID),
			slog.Int("attempt", attempt+1))

		tx = transactionResponse{}
		resp, err = c.http.R().
			SetContext(ctx).
			SetResult(&tx).
			Get("/transactions/" + txID)
		if err != nil {
			return nil, errors.Wrap(err, "poll label transaction")
		}

		if resp.IsError() {
			return nil, errors.Wrapf(service.ErrLabelPurchaseFailed,
				"transaction poll returned %d: %s", resp.StatusCode(), resp.String())
		}
	}
}

func transactionReason(tx transactionResponse) string {
	if len(tx.Messages) > 0 && tx.Messages[0].Text != "" {
		return tx.Messages[0].Text
	}

	return "no reason reported"
}

func formatDim(v float64) string {
	return fmt.Sprintf("%g", v)
}
