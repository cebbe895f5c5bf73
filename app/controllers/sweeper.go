package controllers

import (
	"log"
	"os"
	"time"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/queries"
	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/utils"
)

const (
	defaultAbandonWindow = 72 * time.Hour
	defaultSweepInterval = 10 * time.Minute
)

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("event=config_invalid key=%s value=%q", key, v)
	}
	return fallback
}

// StartAbandonSweeper launches the periodic job that abandons in_escrow
// offers with no payment inside the policy window. The sweep is a single
// guarded UPDATE, so it is idempotent and a buyer paying at the same
// moment races safely: one write wins, the other matches nothing.
func StartAbandonSweeper() {
	window := durationEnv("ESCROW_ABANDON_AFTER", defaultAbandonWindow)
	interval := durationEnv("ESCROW_SWEEP_INTERVAL", defaultSweepInterval)
	log.Printf("event=sweeper_start window=%s interval=%s", window, interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			sweepAbandonedOffers(window)
		}
	}()
}

func sweepAbandonedOffers(window time.Duration) {
	q := queries.OfferQueries{DB: database.DB}
	ids, err := q.SweepAbandoned(time.Now().Add(-window))
	if err != nil {
		log.Printf("event=abandon_sweep_error error=%v", err)
		return
	}
	for _, id := range ids {
		log.Printf("event=offer_abandoned offer=%s", id.String())
		if offer, err := q.GetOfferUnscoped(id); err == nil {
			utils.DefaultNotifier.NotifyOffer(id, escrow.StatusAbandoned.String(), offer.BuyerID, offer.SellerID)
		}
	}
}
