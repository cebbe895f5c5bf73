package controllers

import (
	"errors"
	"log"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/agrovest/agrovest-backend/app/queries"
	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// escrowErrorStatus maps engine sentinels to HTTP codes: 403 wrong
// person, 409 wrong time, 404 invisible, 502 gateway down.
func escrowErrorStatus(err error) int {
	switch {
	case errors.Is(err, escrow.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, escrow.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, escrow.ErrInvalidTransition), errors.Is(err, escrow.ErrAlreadyOpen):
		return fiber.StatusConflict
	case errors.Is(err, escrow.ErrUpstream):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func CreateOffer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CreateOfferRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product_id"})
	}

	productQueries := queries.ProductQueries{DB: database.DB}
	product, err := productQueries.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, escrow.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load product"})
	}
	if product.SellerID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot make an offer on your own product"})
	}

	newOffer := &models.NewOffer{
		ID:          uuid.New(),
		ProductID:   productID,
		BuyerID:     userID,
		SellerID:    product.SellerID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	offerQueries := queries.OfferQueries{DB: database.DB}
	if err := offerQueries.CreateOffer(newOffer); err != nil {
		log.Printf("event=offer_create_error buyer=%s product=%s error=%v", userID, productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create offer"})
	}

	offer, err := offerQueries.GetOfferByID(newOffer.ID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load created offer"})
	}

	log.Printf("event=offer_created offer=%s buyer=%s seller=%s amount=%d", offer.ID, userID, product.SellerID, req.Amount)
	utils.DefaultNotifier.NotifyOffer(offer.ID, offer.Status.String(), product.SellerID)
	return c.Status(fiber.StatusCreated).JSON(offer)
}

func GetOffers(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

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
	result, err := q.ListOffers(userID, status, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list offers"})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func GetOffer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer id"})
	}

	q := queries.OfferQueries{DB: database.DB}
	offer, err := q.GetOfferByID(offerID, userID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(offer)
}

// transitionOffer runs one party-triggered action through the state
// machine. The viewer's role comes from the stored offer, never from the
// request. When the machine asks for a write, the guarded update either
// wins the race or reports a conflict; the response always carries the
// offer re-read from the store.
func transitionOffer(c *fiber.Ctx, action escrow.Action) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer id"})
	}

	q := queries.OfferQueries{DB: database.DB}
	offer, err := q.GetOfferByID(offerID, userID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	role, _ := escrow.RoleOf(offer.BuyerID, offer.SellerID, userID)
	next, changed, err := escrow.Next(offer.Status, action, role)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if changed {
		if err := q.UpdateOfferStatus(offerID, offer.Status, next); err != nil {
			return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("event=offer_transition offer=%s action=%s role=%s from=%s to=%s", offerID, action, role, offer.Status, next)
		utils.DefaultNotifier.NotifyOffer(offerID, next.String(), offer.BuyerID, offer.SellerID)
	}

	updated, err := q.GetOfferByID(offerID, userID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func AcceptOffer(c *fiber.Ctx) error {
	return transitionOffer(c, escrow.ActionAccept)
}

func RejectOffer(c *fiber.Ctx) error {
	return transitionOffer(c, escrow.ActionReject)
}

func CancelOffer(c *fiber.Ctx) error {
	return transitionOffer(c, escrow.ActionCancel)
}

func DisputeOffer(c *fiber.Ctx) error {
	return transitionOffer(c, escrow.ActionDispute)
}

// PayOffer opens escrow on an accepted offer: it asks the gateway for a
// payment link first, then creates the transaction and flips the status in
// one database transaction. If the gateway is down nothing is written and
// the offer stays accepted.
func PayOffer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer id"})
	}

	q := queries.OfferQueries{DB: database.DB}
	offer, err := q.GetOfferByID(offerID, userID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	role, _ := escrow.RoleOf(offer.BuyerID, offer.SellerID, userID)
	if _, _, err := escrow.Next(offer.Status, escrow.ActionOpenPayment, role); err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	txID := uuid.New()
	paymentLink, err := utils.CreatePaymentLink(txID.String(), offer.Amount)
	if err != nil {
		log.Printf("event=payment_link_error offer=%s error=%v", offerID, err)
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": "Failed to create payment link"})
	}

	charge := escrow.LoadFeePolicy().Charge(offer.Amount)
	newTx := &models.NewTransaction{
		ID:          txID,
		OfferID:     offerID,
		Amount:      offer.Amount,
		Charge:      charge,
		PaymentLink: paymentLink,
	}
	if err := q.OpenEscrow(offerID, newTx); err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("event=escrow_opened offer=%s transaction=%s amount=%d charge=%d", offerID, txID, offer.Amount, charge)
	utils.DefaultNotifier.NotifyOffer(offerID, escrow.StatusInEscrow.String(), offer.BuyerID, offer.SellerID)

	updated, err := q.GetOfferByID(offerID, userID)
	if err != nil {
		return c.Status(escrowErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}
