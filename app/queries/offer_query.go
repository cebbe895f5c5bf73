package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OffersPerPage is the fixed page size of the offers listing envelope.
const OffersPerPage = 15

type OfferQueries struct {
	DB *sql.DB
}

// offerSelect joins the offer with its product, both parties and the
// optional transaction. Buyer/seller ids come from the offer row itself.
const offerSelect = `SELECT o.id, o.amount, o.status, o.description, o.payment_link, o.created_at, o.buyer_id, o.seller_id,
	p.id, p.title, p.price, p.images, p.description,
	b.first_name, b.last_name, b.email, b.phone, b.avatar,
	s.first_name, s.last_name, s.email, s.phone, s.avatar,
	t.id, t.amount, t.status, t.is_paid, t.charge, t.payment_link
	FROM offers o
	JOIN products p ON p.id = o.product_id
	JOIN users b ON b.id = o.buyer_id
	JOIN users s ON s.id = o.seller_id
	LEFT JOIN transactions t ON t.offer_id = o.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOffer(row rowScanner, viewerID uuid.UUID) (models.Offer, error) {
	var (
		o                                  models.Offer
		status                             string
		buyerLast, buyerPhone, buyerAvatar sql.NullString
		sellerLast, sellerPhone, sellerAvt sql.NullString
		images                             pq.StringArray
		txID                               sql.NullString
		txAmount, txCharge                 sql.NullInt64
		txStatus, txLink                   sql.NullString
		txPaid                             sql.NullBool
	)

	err := row.Scan(
		&o.ID, &o.Amount, &status, &o.Description, &o.PaymentLink, &o.CreatedAt, &o.BuyerID, &o.SellerID,
		&o.Product.ID, &o.Product.Title, &o.Product.Price, &images, &o.Product.Description,
		&o.Buyer.FirstName, &buyerLast, &o.Buyer.Email, &buyerPhone, &buyerAvatar,
		&o.Seller.FirstName, &sellerLast, &o.Seller.Email, &sellerPhone, &sellerAvt,
		&txID, &txAmount, &txStatus, &txPaid, &txCharge, &txLink,
	)
	if err != nil {
		return o, err
	}

	o.Status = escrow.Status(status)
	o.Product.Images = images
	o.Buyer.ID = o.BuyerID
	o.Buyer.LastName = buyerLast.String
	o.Buyer.Phone = buyerPhone.String
	o.Buyer.Avatar = buyerAvatar.String
	o.Seller.ID = o.SellerID
	o.Seller.LastName = sellerLast.String
	o.Seller.Phone = sellerPhone.String
	o.Seller.Avatar = sellerAvt.String

	if role, ok := escrow.RoleOf(o.BuyerID, o.SellerID, viewerID); ok {
		o.UserType = string(role)
	}

	if txID.Valid {
		id, err := uuid.Parse(txID.String)
		if err != nil {
			return o, fmt.Errorf("bad transaction id on offer %s: %w", o.ID, err)
		}
		o.Transaction = &models.OfferTransaction{
			ID:          id,
			Amount:      txAmount.Int64,
			Status:      txStatus.String,
			IsPaid:      txPaid.Bool,
			Charge:      txCharge.Int64,
			PaymentLink: txLink.String,
		}
	}
	return o, nil
}

func (q *OfferQueries) CreateOffer(o *models.NewOffer) error {
	query := `INSERT INTO offers (id, product_id, buyer_id, seller_id, amount, description, status, payment_link, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, '', now(), now())`
	_, err := q.DB.Exec(query, o.ID, o.ProductID, o.BuyerID, o.SellerID, o.Amount, o.Description, escrow.StatusPending.String())
	if err != nil {
		return fmt.Errorf("unable to create offer: %w", err)
	}
	return nil
}

// GetOfferByID returns the offer only when the viewer is one of its
// parties; anything else reports not found so strangers cannot probe ids.
func (q *OfferQueries) GetOfferByID(id, viewerID uuid.UUID) (models.Offer, error) {
	query := offerSelect + ` WHERE o.id = $1 AND (o.buyer_id = $2 OR o.seller_id = $2)`
	o, err := scanOffer(q.DB.QueryRow(query, id, viewerID), viewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, escrow.ErrNotFound
		}
		return o, fmt.Errorf("unable to get offer: %w", err)
	}
	return o, nil
}

// GetOfferUnscoped is the admin/system view of an offer.
func (q *OfferQueries) GetOfferUnscoped(id uuid.UUID) (models.Offer, error) {
	query := offerSelect + ` WHERE o.id = $1`
	o, err := scanOffer(q.DB.QueryRow(query, id), uuid.Nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, escrow.ErrNotFound
		}
		return o, fmt.Errorf("unable to get offer: %w", err)
	}
	return o, nil
}

// ListOffers pages through offers the viewer participates in, newest
// first, optionally narrowed to a single status. Pages past the end come
// back with empty data, not an error.
func (q *OfferQueries) ListOffers(viewerID uuid.UUID, status *escrow.Status, page int) (models.OffersPage, error) {
	return q.listOffers(&viewerID, status, page)
}

// ListAllOffers is the admin listing: every pair's offers, same envelope.
func (q *OfferQueries) ListAllOffers(status *escrow.Status, page int) (models.OffersPage, error) {
	return q.listOffers(nil, status, page)
}

func (q *OfferQueries) listOffers(viewerID *uuid.UUID, status *escrow.Status, page int) (models.OffersPage, error) {
	if page < 1 {
		page = 1
	}
	result := models.OffersPage{CurrentPage: page, Data: []models.Offer{}}

	where := ""
	args := []interface{}{}
	argID := 1
	if viewerID != nil {
		where = fmt.Sprintf(" WHERE (o.buyer_id = $%d OR o.seller_id = $%d)", argID, argID)
		args = append(args, *viewerID)
		argID++
	}
	if status != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE o.status = $%d", argID)
		} else {
			where += fmt.Sprintf(" AND o.status = $%d", argID)
		}
		args = append(args, status.String())
		argID++
	}

	var total int
	countQuery := `SELECT count(*) FROM offers o` + where
	if err := q.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return result, fmt.Errorf("unable to count offers: %w", err)
	}
	result.Total = total
	result.LastPage = (total + OffersPerPage - 1) / OffersPerPage
	if result.LastPage < 1 {
		result.LastPage = 1
	}

	query := offerSelect + where + fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, OffersPerPage, (page-1)*OffersPerPage)

	rows, err := q.DB.Query(query, args...)
	if err != nil {
		return result, fmt.Errorf("unable to list offers: %w", err)
	}
	defer rows.Close()

	viewer := uuid.Nil
	if viewerID != nil {
		viewer = *viewerID
	}
	for rows.Next() {
		o, err := scanOffer(rows, viewer)
		if err != nil {
			return result, fmt.Errorf("unable to scan offer row: %w", err)
		}
		result.Data = append(result.Data, o)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("unable to iterate offer rows: %w", err)
	}
	return result, nil
}

// UpdateOfferStatus applies a status transition with an atomic
// check-and-set. When two requests race, exactly one matches the expected
// status; the loser gets ErrInvalidTransition and should re-fetch.
func (q *OfferQueries) UpdateOfferStatus(id uuid.UUID, from, to escrow.Status) error {
	query := `UPDATE offers SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	res, err := q.DB.Exec(query, id, from.String(), to.String())
	if err != nil {
		return fmt.Errorf("unable to update offer status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update offer status: %w", err)
	}
	if rows == 0 {
		return escrow.ErrInvalidTransition
	}
	return nil
}

// OpenEscrow creates the transaction and moves the offer from accepted to
// in_escrow in a single database transaction: both happen or neither does.
// A second open attempt trips the unique offer_id constraint and reports
// ErrAlreadyOpen.
func (q *OfferQueries) OpenEscrow(offerID uuid.UUID, nt *models.NewTransaction) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}

	insert := `INSERT INTO transactions (id, offer_id, amount, charge, status, is_paid, payment_link, created_at, updated_at)
			   VALUES ($1, $2, $3, $4, 'pending', FALSE, $5, now(), now())`
	if _, err = tx.Exec(insert, nt.ID, nt.OfferID, nt.Amount, nt.Charge, nt.PaymentLink); err != nil {
		tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return escrow.ErrAlreadyOpen
		}
		return fmt.Errorf("unable to create transaction: %w", err)
	}

	update := `UPDATE offers SET status = $2, payment_link = $3, updated_at = now() WHERE id = $1 AND status = $4`
	res, err := tx.Exec(update, offerID, escrow.StatusInEscrow.String(), nt.PaymentLink, escrow.StatusAccepted.String())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("unable to move offer into escrow: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("unable to move offer into escrow: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return escrow.ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit escrow open: %w", err)
	}
	return nil
}

// MarkTransactionPaid flips is_paid exactly once. A duplicate gateway
// notification finds the row already paid and reports alreadyPaid=true
// with no further side effects.
func (q *OfferQueries) MarkTransactionPaid(txID uuid.UUID) (offerID uuid.UUID, alreadyPaid bool, err error) {
	update := `UPDATE transactions SET is_paid = TRUE, status = 'settlement', updated_at = now() WHERE id = $1 AND is_paid = FALSE RETURNING offer_id`
	err = q.DB.QueryRow(update, txID).Scan(&offerID)
	if err == nil {
		return offerID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("unable to mark transaction paid: %w", err)
	}

	var isPaid bool
	check := `SELECT offer_id, is_paid FROM transactions WHERE id = $1`
	err = q.DB.QueryRow(check, txID).Scan(&offerID, &isPaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, false, escrow.ErrNotFound
		}
		return uuid.Nil, false, fmt.Errorf("unable to check transaction: %w", err)
	}
	if isPaid {
		return offerID, true, nil
	}
	// row exists unpaid yet the guarded update matched nothing: lost a race
	return offerID, false, escrow.ErrInvalidTransition
}

// MarkTransactionFailed records a gateway deny/expire/cancel outcome.
// Paid transactions are left alone.
func (q *OfferQueries) MarkTransactionFailed(txID uuid.UUID, gatewayStatus string) error {
	query := `UPDATE transactions SET status = $2, updated_at = now() WHERE id = $1 AND is_paid = FALSE`
	res, err := q.DB.Exec(query, txID, gatewayStatus)
	if err != nil {
		return fmt.Errorf("unable to mark transaction failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to mark transaction failed: %w", err)
	}
	if rows == 0 {
		return escrow.ErrNotFound
	}
	return nil
}

// SweepAbandoned abandons every in_escrow offer untouched since before the
// cutoff. The single guarded statement makes re-runs no-ops and lets a
// concurrent payment win or lose atomically.
func (q *OfferQueries) SweepAbandoned(cutoff time.Time) ([]uuid.UUID, error) {
	query := `UPDATE offers SET status = $1, updated_at = now() WHERE status = $2 AND updated_at < $3 RETURNING id`
	rows, err := q.DB.Query(query, escrow.StatusAbandoned.String(), escrow.StatusInEscrow.String(), cutoff)
	if err != nil {
		return nil, fmt.Errorf("unable to sweep abandoned offers: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return ids, fmt.Errorf("unable to scan abandoned offer id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return ids, fmt.Errorf("unable to iterate abandoned offers: %w", err)
	}
	return ids, nil
}

// CountOffersByStatus feeds the admin activity overview.
func (q *OfferQueries) CountOffersByStatus() (map[string]int, error) {
	counts := map[string]int{}
	rows, err := q.DB.Query(`SELECT status, count(*) FROM offers GROUP BY status`)
	if err != nil {
		return counts, fmt.Errorf("unable to count offers by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, fmt.Errorf("unable to scan status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("unable to iterate status counts: %w", err)
	}
	return counts, nil
}
