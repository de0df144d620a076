package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

type fulfillmentService struct {
	gateway service.PaymentGateway
	carrier service.CarrierService
	sink    service.NotificationSink
	orders  repository.OrderRepository
	ledger  *inventoryLedger
	cfg     *config.Config
	logger  *slog.Logger
}

// NewFulfillmentService creates the webhook-driven fulfillment orchestrator.
func NewFulfillmentService(
	cfg *config.Config,
	logger *slog.Logger,
	gateway service.PaymentGateway,
	carrier service.CarrierService,
	sink service.NotificationSink,
	orders repository.OrderRepository,
	products repository.ProductRepository,
) usecase.FulfillmentUsecase {
	return &fulfillmentService{
		gateway: gateway,
		carrier: carrier,
		sink:    sink,
		orders:  orders,
		ledger:  newInventoryLedger(products, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// HandlePaymentEvent verifies the delivery and runs fulfillment. Only the
// signature check can fail the call; everything after it is logged and
// swallowed so the provider acknowledges the delivery exactly once and never
// replays a half-fulfilled session.
func (s *fulfillmentService) HandlePaymentEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != service.EventCheckoutCompleted {
		s.logger.Debug("ignoring payment event", slog.String("type", event.Type))

		return nil
	}

	if err := s.fulfill(ctx, event.SessionID); err != nil {
		s.logger.Error("fulfillment failed",
			slog.String("session_id", event.SessionID),
			slog.Any("error", err))
	}

	return nil
}

func (s *fulfillmentService) fulfill(ctx context.Context, sessionID string) error {
	snap, err := s.gateway.RetrieveCheckout(ctx, sessionID)
	if err != nil {
		return err
	}

	// Redeliveries of the same session must not ship twice or decrement
	// stock twice.
	if _, err := s.orders.FindByID(ctx, snap.ID); err == nil {
		s.logger.Info("order already recorded, skipping",
			slog.String("session_id", snap.ID))

		return nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return err
	}

	addr := resolveAddress(snap)

	hold := false
	holdReason := ""
	if lock, ok := parseShipLock(snap.Metadata); ok && addr.Shippable() && !addr.Equal(lock.Address()) {
		hold = true
		holdReason = entity.HoldReasonAddressChanged
		s.notify(ctx, addressChangedAlert(snap.ID, lock.Address(), addr))
	}

	if snap.CustomerID != "" && addr.Shippable() {
		if err := s.gateway.SaveCustomerAddress(ctx, snap.CustomerID, addr); err != nil {
			s.logger.Warn("saving customer address failed",
				slog.String("customer_id", snap.CustomerID),
				slog.Any("error", err))
		}
	}

	var label *entity.PurchasedLabel
	if s.labelEligible(addr, hold) {
		label = s.buyLabel(ctx, addr)
	}

	items := buildOrderItems(snap)
	if err := s.ledger.ApplyDecrements(ctx, decrementsFor(items)); err != nil {
		s.logger.Warn("inventory decrement failed",
			slog.String("session_id", snap.ID),
			slog.Any("error", err))
	}

	name := snap.CustomerName
	if name == "" {
		name = addr.Name
	}

	order := entity.Order{
		ID:             snap.ID,
		Hold:           hold,
		HoldReason:     holdReason,
		PaymentStatus:  snap.PaymentStatus,
		AmountTotal:    snap.AmountTotal,
		Currency:       snap.Currency,
		Email:          snap.CustomerEmail,
		Name:           name,
		Address:        addr,
		ShippingRateID: snap.ShippingRateID,
		ShippingAmount: snap.ShippingAmount,
		Items:          items,
		Label:          label,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.orders.Append(ctx, order); err != nil {
		s.logger.Error("recording order failed",
			slog.String("session_id", snap.ID),
			slog.Any("error", err))
	}

	s.notify(ctx, orderSummary(order, s.cfg))

	return nil
}

func (s *fulfillmentService) labelEligible(addr entity.Address, hold bool) bool {
	return s.cfg.Shippo.Token != "" &&
		addr.Shippable() &&
		s.cfg.ShipFrom.Complete() &&
		!hold
}

func (s *fulfillmentService) buyLabel(ctx context.Context, to entity.Address) *entity.PurchasedLabel {
	shipment, err := s.carrier.Quote(ctx, to, shipFromAddress(s.cfg.ShipFrom), parcelFromConfig(s.cfg.Parcel))
	if err != nil {
		s.logger.Warn("rate quote failed", slog.Any("error", err))

		return nil
	}

	if shipment == nil {
		s.logger.Warn("carrier returned no shipment")

		return nil
	}

	rate := selectCheapestRate(shipment.Rates)
	if rate == nil {
		s.logger.Warn("no usable rates returned",
			slog.String("shipment_id", shipment.ShipmentID))

		return nil
	}

	label, err := s.carrier.Purchase(ctx, *rate)
	if err != nil {
		s.logger.Warn("label purchase failed",
			slog.String("rate_id", rate.RateID),
			slog.Any("error", err))

		return nil
	}

	s.logger.Info("label purchased",
		slog.String("carrier", label.Carrier),
		slog.String("tracking_number", label.TrackingNumber))

	return label
}

func (s *fulfillmentService) notify(ctx context.Context, message string) {
	if err := s.sink.Notify(ctx, message); err != nil {
		s.logger.Warn("operator notification failed", slog.Any("error", err))
	}
}

// cartMetaLine mirrors one entry of the order_items session metadata written
// at checkout time.
type cartMetaLine struct {
	ID      string `json:"id"`
	PriceID string `json:"priceId"`
	Qty     int64  `json:"qty"`
	Size    string `json:"size"`
}

func parseCartMeta(metadata map[string]string) []cartMetaLine {
	raw, ok := metadata[service.MetadataOrderItems]
	if !ok || raw == "" {
		return nil
	}

	var lines []cartMetaLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil
	}

	return lines
}

// buildOrderItems joins the provider's line items with the cart metadata,
// which carries the local product id and size the provider does not know
// about. Lines are matched by price reference first, by position second.
func buildOrderItems(snap *service.CheckoutSnapshot) []entity.OrderItem {
	metas := parseCartMeta(snap.Metadata)

	items := make([]entity.OrderItem, 0, len(snap.LineItems))
	for i, li := range snap.LineItems {
		item := entity.OrderItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			PriceID:     li.PriceID,
			ProductID:   li.ProductID,
		}

		if meta := matchCartMeta(metas, li.PriceID, i); meta != nil {
			item.Size = meta.Size
			if meta.ID != "" {
				item.ProductID = meta.ID
			}
		}

		items = append(items, item)
	}

	return items
}

func matchCartMeta(metas []cartMetaLine, priceID string, index int) *cartMetaLine {
	for i := range metas {
		if metas[i].PriceID != "" && metas[i].PriceID == priceID {
			return &metas[i]
		}
	}

	if index < len(metas) {
		return &metas[index]
	}

	return nil
}

func decrementsFor(items []entity.OrderItem) []inventoryDecrement {
	decrements := make([]inventoryDecrement, 0, len(items))
	for _, item := range items {
		decrements = append(decrements, inventoryDecrement{
			ProductID: item.ProductID,
			PriceID:   item.PriceID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}

	return decrements
}

func shipFromAddress(from config.ShipFrom) entity.Address {
	return entity.Address{
		Name:       from.Name,
		Line1:      from.Street1,
		Line2:      from.Street2,
		City:       from.City,
		State:      from.State,
		PostalCode: from.Zip,
		Country:    from.Country,
		Phone:      from.Phone,
		Email:      from.Email,
	}
}

func parcelFromConfig(p config.Parcel) entity.Parcel {
	return entity.Parcel{
		LengthIn: p.LengthIn,
		WidthIn:  p.WidthIn,
		HeightIn: p.HeightIn,
		WeightOz: p.WeightOz,
	}
}

func orderSummary(order entity.Order, cfg *config.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧾 New order %s\n", order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s x%d", item.Description, item.Quantity)
		if item.Size != "" {
			fmt.Fprintf(&b, " (%s)", item.Size)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total: $%.2f %s\n", float64(order.AmountTotal)/100, strings.ToUpper(order.Currency))

	if order.Address.Shippable() {
		fmt.Fprintf(&b, "Ship to: %s, %s\n", order.Address.Name, order.Address.Summary())
	}

	switch {
	case order.Label != nil:
		fmt.Fprintf(&b, "Tracking: %s\nLabel: %s\n", order.Label.TrackingNumber, order.Label.LabelURL)
	case order.Hold:
		fmt.Fprintf(&b, "On hold: %s\n", order.HoldReason)
	}

	if cfg.Storefront.ServerOrigin != "" {
		fmt.Fprintf(&b, "Admin: %s/api/admin/orders?key=%s", cfg.Storefront.ServerOrigin, cfg.Admin.Key)
	}

	return strings.TrimRight(b.String(), "\n")
}

func addressChangedAlert(sessionID string, locked, resolved entity.Address) string {
	return fmt.Sprintf(
		"⚠️ Address changed on Checkout for session %s\nLocked: %s\nGot: %s\n(No label purchased; order on hold)",
		sessionID, locked.Summary(), resolved.Summary(),
	)
}
