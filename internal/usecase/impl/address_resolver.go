package impl

import (
	"encoding/json"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

// resolveAddress picks the shipping destination from the session snapshot.
// Tiers, in order: the address entered on the payment page, the payer
// profile's stored address, the payment intent's embedded shipping. A tier
// only wins with a non-empty street line; a present-but-empty payload falls
// through to the next tier. When the winner still lacks a usable street
// address, the ship-lock snapshot from the session metadata backfills it.
// Never errors; an empty Line1 downstream means "cannot ship".
func resolveAddress(snap *service.CheckoutSnapshot) entity.Address {
	var addr entity.Address

	for _, tier := range []*entity.Address{
		snap.ShippingAddress,
		snap.CustomerAddress,
		snap.IntentShipping,
	} {
		if tier != nil && tier.Line1 != "" {
			addr = *tier

			break
		}
	}

	if addr.Name == "" {
		addr.Name = snap.CustomerName
	}
	addr.Phone = snap.CustomerPhone
	addr.Email = snap.CustomerEmail

	if lock, ok := parseShipLock(snap.Metadata); ok && !addressUsable(addr) {
		locked := lock.Address()
		locked.Phone = addr.Phone
		locked.Email = addr.Email
		if locked.Name == "" {
			locked.Name = addr.Name
		}

		addr = locked
	}

	return addr
}

func addressUsable(a entity.Address) bool {
	return a.Line1 != "" && a.City != "" && a.State != "" && a.PostalCode != ""
}

func parseShipLock(metadata map[string]string) (entity.ShipLock, bool) {
	raw, ok := metadata[service.MetadataShipLock]
	if !ok || raw == "" {
		return entity.ShipLock{}, false
	}

	var lock entity.ShipLock
	if err := json.Unmarshal([]byte(raw), &lock); err != nil {
		return entity.ShipLock{}, false
	}

	return lock, true
}
