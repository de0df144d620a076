package shippo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(t *testing.T, baseURL string) *client {
	t.Helper()

	cfg := &config.Config{}
	cfg.Shippo.Token = "shippo_test_token"
	cfg.Shippo.BaseURL = baseURL

	c := NewCarrierService(cfg, slog.New(slog.DiscardHandler)).(*client)
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	return c
}

func TestQuote(t *testing.T) {
	var gotAuth string
	var gotBody shipmentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/shipments/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeJSON(t, w, map[string]any{
			"object_id": "shp_1",
			"rates": []map[string]any{
				{
					"object_id":      "rate_usps",
					"provider":       "USPS",
					"amount":         "5.25",
					"estimated_days": 3,
					"servicelevel":   map[string]any{"name": "Ground Advantage"},
				},
				{
					"object_id":      "rate_ups",
					"provider":       "UPS",
					"amount":         "9.80",
					"estimated_days": 2,
					"servicelevel":   map[string]any{"name": "Ground"},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	shipment, err := c.Quote(context.Background(),
		entity.Address{Name: "Ada", Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "US"},
		entity.Address{Name: "Shop", Line1: "9 Dock Rd", City: "Reno", State: "NV", PostalCode: "89501", Country: "US"},
		entity.Parcel{LengthIn: 10, WidthIn: 8, HeightIn: 2, WeightOz: 16},
	)
	require.NoError(t, err)

	assert.Equal(t, "ShippoToken shippo_test_token", gotAuth)
	assert.Equal(t, "1 Main St", gotBody.AddressTo.Street1)
	assert.Equal(t, "78701", gotBody.AddressTo.Zip)
	assert.False(t, gotBody.Async)
	require.Len(t, gotBody.Parcels, 1)
	assert.Equal(t, "in", gotBody.Parcels[0].DistanceUnit)
	assert.Equal(t, "oz", gotBody.Parcels[0].MassUnit)
	assert.Equal(t, "16", gotBody.Parcels[0].Weight)

	assert.Equal(t, "shp_1", shipment.ShipmentID)
	require.Len(t, shipment.Rates, 2)
	assert.Equal(t, entity.RateQuote{
		RateID:        "rate_usps",
		Carrier:       "USPS",
		Service:       "Ground Advantage",
		Amount:        "5.25",
		EstimatedDays: 3,
	}, shipment.Rates[0])
}

func TestQuoteCarrierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"address_to is invalid"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Quote(context.Background(), entity.Address{}, entity.Address{}, entity.Parcel{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCarrierUnavailable))
}

func TestPurchasePollsToSuccess(t *testing.T) {
	var polls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/transactions/":
			var body transactionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "rate_usps", body.Rate)
			assert.Equal(t, "PDF", body.LabelFileType)

			writeJSON(t, w, map[string]any{
				"object_id": "txn_1",
				"status":    "QUEUED",
			})
		case r.Method == http.MethodGet && r.URL.Path == "/transactions/txn_1":
			polls++
			status := "WAITING"
			resp := map[string]any{"object_id": "txn_1", "status": status}
			if polls >= 2 {
				resp = map[string]any{
					"object_id":       "txn_1",
					"status":          "SUCCESS",
					"label_url":       "https://labels.example/txn_1.pdf",
					"tracking_number": "9400110200881234567890",
				}
			}
			writeJSON(t, w, resp)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	label, err := c.Purchase(context.Background(), entity.RateQuote{
		RateID:  "rate_usps",
		Carrier: "USPS",
		Service: "Ground Advantage",
		Amount:  "5.25",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, polls)
	assert.Equal(t, "https://labels.example/txn_1.pdf", label.LabelURL)
	assert.Equal(t, "9400110200881234567890", label.TrackingNumber)
	assert.Equal(t, "USPS", label.Carrier)
	assert.Equal(t, "Ground Advantage", label.Service)
}

func TestPurchaseTerminalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"object_id": "txn_2",
			"status":    "ERROR",
			"messages":  []map[string]any{{"text": "rate expired"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Purchase(context.Background(), entity.RateQuote{RateID: "rate_old"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrLabelPurchaseFailed))
	assert.Contains(t, err.Error(), "rate expired")
}

func TestPurchaseTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"object_id": "txn_3",
			"status":    "QUEUED",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Purchase(context.Background(), entity.RateQuote{RateID: "rate_slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrLabelPurchaseTimedOut))
}

func TestPurchaseSucceedsOnFinalPoll(t *testing.T) {
	var polls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeJSON(t, w, map[string]any{
				"object_id": "txn_5",
				"status":    "QUEUED",
			})

			return
		}

		polls++
		if polls < pollAttempts {
			writeJSON(t, w, map[string]any{"object_id": "txn_5", "status": "QUEUED"})

			return
		}
		writeJSON(t, w, map[string]any{
			"object_id":       "txn_5",
			"status":          "SUCCESS",
			"label_url":       "https://labels.example/txn_5.pdf",
			"tracking_number": "9400110200889999999999",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	label, err := c.Purchase(context.Background(), entity.RateQuote{RateID: "rate_late"})
	require.NoError(t, err)

	assert.Equal(t, pollAttempts, polls)
	assert.Equal(t, "9400110200889999999999", label.TrackingNumber)
}

func TestPurchaseContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"object_id": "txn_4",
			"status":    "QUEUED",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Purchase(ctx, entity.RateQuote{RateID: "rate_x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
