package models

import (
	"time"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/google/uuid"
)

// OfferParty is the buyer/seller contact block embedded in an offer.
type OfferParty struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
}

// OfferProduct is a display snapshot of the product; the offer amount, not
// the product price, is authoritative for the deal.
type OfferProduct struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
	Description string    `json:"description"`
}

// OfferTransaction is the payment record created when an offer enters
// escrow. Amount equals the offer amount; charge is the platform fee
// deducted from the seller payout.
type OfferTransaction struct {
	ID          uuid.UUID `json:"id"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	IsPaid      bool      `json:"is_paid"`
	Charge      int64     `json:"charge"`
	PaymentLink string    `json:"payment_link"`
}

// Offer is the wire shape returned to both parties. UserType is derived
// per request from the authenticated user against the stored party ids.
type Offer struct {
	ID          uuid.UUID         `json:"id"`
	Amount      int64             `json:"amount"`
	Status      escrow.Status     `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	UserType    string            `json:"user_type"`
	PaymentLink string            `json:"payment_link"`
	Product     OfferProduct      `json:"product"`
	Seller      OfferParty        `json:"seller"`
	Buyer       OfferParty        `json:"buyer"`
	Transaction *OfferTransaction `json:"transaction"`

	BuyerID  uuid.UUID `json:"-"`
	SellerID uuid.UUID `json:"-"`
}

// NewOffer carries the fields inserted at offer creation. Status always
// starts at pending.
type NewOffer struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	BuyerID     uuid.UUID
	SellerID    uuid.UUID
	Amount      int64
	Description string
}

// NewTransaction carries the row inserted when escrow opens.
type NewTransaction struct {
	ID          uuid.UUID
	OfferID     uuid.UUID
	Amount      int64
	Charge      int64
	PaymentLink string
}

type CreateOfferRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid4"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,lte=1000"`
}

type ResolveOfferRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=success failed"`
}

// OffersPage is the paging envelope the dashboards consume. A page past
// last_page carries an empty data slice, not an error.
type OffersPage struct {
	CurrentPage int     `json:"current_page"`
	Data        []Offer `json:"data"`
	LastPage    int     `json:"last_page"`
	Total       int     `json:"total"`
}
