package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/queries"
	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PaymentNotification handles the Midtrans webhook. The order id is the
// transaction id we handed the gateway. Settlements are applied exactly
// once: marking the transaction paid is guarded on is_paid and the offer
// advance is a status-guarded update, so a redelivery either finds nothing
// to do or finishes an advance an earlier delivery failed to make. Store
// errors are answered with 500 so the gateway keeps redelivering.
func PaymentNotification(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return c.SendStatus(http.StatusBadRequest)
	}

	orderID, _ := payload["order_id"].(string)
	if orderID == "" {
		if td, ok := payload["transaction_details"].(map[string]interface{}); ok {
			orderID, _ = td["order_id"].(string)
		}
	}
	if orderID == "" {
		return c.SendStatus(http.StatusBadRequest)
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)
	if !utils.ValidMidtransSignature(orderID, statusCode, grossAmount, signature) {
		log.Printf("event=payment_rejected order=%s reason=bad_signature", orderID)
		return c.SendStatus(http.StatusForbidden)
	}

	txID, err := uuid.Parse(orderID)
	if err != nil {
		return c.SendStatus(http.StatusBadRequest)
	}

	txStatus, _ := payload["transaction_status"].(string)
	q := queries.OfferQueries{DB: database.DB}

	switch txStatus {
	case "capture", "settlement":
		offerID, alreadyPaid, err := q.MarkTransactionPaid(txID)
		if err != nil {
			if errors.Is(err, escrow.ErrNotFound) {
				return c.SendStatus(http.StatusNotFound)
			}
			if errors.Is(err, escrow.ErrInvalidTransition) {
				// concurrent notification won; nothing left to apply
				log.Printf("event=payment_duplicate transaction=%s", txID)
				return c.SendStatus(http.StatusOK)
			}
			log.Printf("event=payment_apply_error transaction=%s error=%v", txID, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "unable to apply payment"})
		}
		if alreadyPaid {
			log.Printf("event=payment_duplicate transaction=%s offer=%s", txID, offerID)
		}

		// the advance runs on duplicates too: an earlier delivery may have
		// recorded the payment and then failed to move the offer, and the
		// guarded update lets the redelivery close exactly that gap
		if err := q.UpdateOfferStatus(offerID, escrow.StatusInEscrow, escrow.StatusSuccess); err != nil {
			if errors.Is(err, escrow.ErrInvalidTransition) {
				if !alreadyPaid {
					// offer moved out of escrow (dispute or abandonment)
					// before the payment landed; funds are recorded,
					// resolution owns the rest
					log.Printf("event=payment_after_transition offer=%s transaction=%s", offerID, txID)
				}
				return c.SendStatus(http.StatusOK)
			}
			// store hiccup: refuse the notification so the gateway redelivers
			log.Printf("event=payment_advance_error offer=%s transaction=%s error=%v", offerID, txID, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "unable to settle offer"})
		}

		log.Printf("event=payment_settled offer=%s transaction=%s", offerID, txID)
		if offer, err := q.GetOfferUnscoped(offerID); err == nil {
			utils.DefaultNotifier.NotifyOffer(offerID, escrow.StatusSuccess.String(), offer.BuyerID, offer.SellerID)
		}

	case "deny", "expire", "cancel":
		if err := q.MarkTransactionFailed(txID, txStatus); err != nil && !errors.Is(err, escrow.ErrNotFound) {
			log.Printf("event=payment_fail_error transaction=%s error=%v", txID, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "unable to update transaction"})
		}
		log.Printf("event=payment_failed transaction=%s gateway_status=%s", txID, txStatus)

	default:
		log.Printf("event=payment_ignored transaction=%s gateway_status=%s", txID, txStatus)
	}

	return c.SendStatus(http.StatusOK)
}
