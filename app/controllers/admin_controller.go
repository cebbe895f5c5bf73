package controllers

import (
	"log"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/agrovest/agrovest-backend/app/queries"
	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminGetOffers lists every pair's offers for the back office, same
// envelope and filter semantics as the user-facing listing.
func AdminGetOffers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	var status *escrow.Status
	if s := c.Query("status"); s != "" {
		st, err := escrow.ParseStatus(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		status = &st
	}

	q := queries.OfferQueries{DB: database.DB}
	result, err := q.ListAllOffers(status, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list offers"})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// AdminResolveOffer adjudicates a disputed offer to success or failed.
func AdminResolveOffer(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer id"})
	}

	req := &models.ResolveOfferRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	action := escrow.ActionResolveSuccess
	if req.Outcome == "failed" {
		action = escrow.ActionResolveFailed
	}

	q := queries.OfferQueries{DB: database.DB}
	offer, err := q.GetOfferUnscoped(offerID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	next, _, err := escrow.Next(offer.Status, action, escrow.RoleAdmin)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := q.UpdateOfferStatus(offerID, offer.Status, next); err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("event=dispute_resolved offer=%s outcome=%s", offerID, next)
	utils.DefaultNotifier.NotifyOffer(offerID, next.String(), offer.BuyerID, offer.SellerID)

	updated, err := q.GetOfferUnscoped(offerID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// AdminDashboard returns the escrow activity overview counts.
func AdminDashboard(c *fiber.Ctx) error {
	q := queries.OfferQueries{DB: database.DB}
	counts, err := q.CountOffersByStatus()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"offers_by_status": counts,
		"total_offers":     total,
	})
}
