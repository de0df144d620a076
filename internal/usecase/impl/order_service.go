package impl

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

type orderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates the operator-facing order usecase.
func NewOrderService(orders repository.OrderRepository) usecase.OrderUsecase {
	return &orderService{orders: orders}
}

func (s *orderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	return orders, nil
}

var csvColumns = []string{
	"id", "createdAtISO", "email", "name", "total_cents", "currency",
	"shipping_cents", "carrier", "service", "tracking_code", "label_url",
	"addr_name", "addr_line1", "addr_line2", "addr_city", "addr_state",
	"addr_zip", "addr_country",
}

// ExportCSV renders all orders with a fixed column set. Every field is
// double-quoted with embedded quotes doubled so free-text names and
// addresses survive spreadsheet import.
func (s *orderService) ExportCSV(ctx context.Context) (string, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list orders")
	}

	var b strings.Builder

	writeCSVRow(&b, csvColumns)

	for _, order := range orders {
		carrier, svc, tracking, labelURL := "", "", "", ""
		if order.Label != nil {
			carrier = order.Label.Carrier
			svc = order.Label.Service
			tracking = order.Label.TrackingNumber
			labelURL = order.Label.LabelURL
		}

		writeCSVRow(&b, []string{
			order.ID,
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.Email,
			order.Name,
			strconv.FormatInt(order.AmountTotal, 10),
			order.Currency,
			strconv.FormatInt(order.ShippingAmount, 10),
			carrier,
			svc,
			tracking,
			labelURL,
			order.Address.Name,
			order.Address.Line1,
			order.Address.Line2,
			order.Address.City,
			order.Address.State,
			order.Address.PostalCode,
			order.Address.Country,
		})
	}

	return b.String(), nil
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
