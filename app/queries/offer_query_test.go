package queries

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offerColumns = []string{
	"id", "amount", "status", "description", "payment_link", "created_at", "buyer_id", "seller_id",
	"p_id", "p_title", "p_price", "p_images", "p_description",
	"b_first_name", "b_last_name", "b_email", "b_phone", "b_avatar",
	"s_first_name", "s_last_name", "s_email", "s_phone", "s_avatar",
	"t_id", "t_amount", "t_status", "t_is_paid", "t_charge", "t_payment_link",
}

func offerRow(offerID, buyerID, sellerID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(offerColumns).AddRow(
		offerID.String(), int64(500000), status, "50kg bags, dried", "", time.Now(), buyerID.String(), sellerID.String(),
		uuid.New().String(), "Maize 50kg", int64(520000), "{https://cdn.example.com/maize.jpg}", "Dried yellow maize",
		"Bola", "Adeyemi", "bola@example.com", nil, nil,
		"Sade", nil, "sade@example.com", "+2348012345678", nil,
		nil, nil, nil, nil, nil, nil,
	)
}

func TestUpdateOfferStatus_CheckAndSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}
	offerID := uuid.New()

	mock.ExpectExec(`UPDATE offers SET status`).
		WithArgs(offerID, "pending", "accepted").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, q.UpdateOfferStatus(offerID, escrow.StatusPending, escrow.StatusAccepted))

	// a concurrent transition already moved the offer; the guard matches
	// nothing and the caller loses cleanly
	mock.ExpectExec(`UPDATE offers SET status`).
		WithArgs(offerID, "pending", "rejected").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = q.UpdateOfferStatus(offerID, escrow.StatusPending, escrow.StatusRejected)
	require.ErrorIs(t, err, escrow.ErrInvalidTransition)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenEscrow_Atomic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	offerID := uuid.New()
	nt := &models.NewTransaction{
		ID:          uuid.New(),
		OfferID:     offerID,
		Amount:      500000,
		Charge:      7500,
		PaymentLink: "https://app.sandbox.midtrans.com/snap/v2/vtweb/abc",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(nt.ID, nt.OfferID, nt.Amount, nt.Charge, nt.PaymentLink).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE offers SET status`).
		WithArgs(offerID, "in_escrow", nt.PaymentLink, "accepted").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, q.OpenEscrow(offerID, nt))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenEscrow_OfferNotAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	offerID := uuid.New()
	nt := &models.NewTransaction{ID: uuid.New(), OfferID: offerID, Amount: 100, PaymentLink: "https://pay.example.com/x"}

	// insert succeeds but the offer is no longer accepted; everything
	// rolls back and the transaction row never lands
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE offers SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = q.OpenEscrow(offerID, nt)
	require.ErrorIs(t, err, escrow.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenEscrow_DuplicateReportsAlreadyOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	offerID := uuid.New()
	nt := &models.NewTransaction{ID: uuid.New(), OfferID: offerID, Amount: 100, PaymentLink: "https://pay.example.com/x"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err = q.OpenEscrow(offerID, nt)
	require.ErrorIs(t, err, escrow.ErrAlreadyOpen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTransactionPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	txID := uuid.New()
	offerID := uuid.New()

	// first notification flips the row
	mock.ExpectQuery(`UPDATE transactions SET is_paid`).
		WithArgs(txID).
		WillReturnRows(sqlmock.NewRows([]string{"offer_id"}).AddRow(offerID.String()))
	gotOffer, already, err := q.MarkTransactionPaid(txID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, offerID, gotOffer)

	// duplicate notification finds the row already paid: no side effects
	mock.ExpectQuery(`UPDATE transactions SET is_paid`).
		WithArgs(txID).
		WillReturnRows(sqlmock.NewRows([]string{"offer_id"}))
	mock.ExpectQuery(`SELECT offer_id, is_paid FROM transactions`).
		WithArgs(txID).
		WillReturnRows(sqlmock.NewRows([]string{"offer_id", "is_paid"}).AddRow(offerID.String(), true))
	gotOffer, already, err = q.MarkTransactionPaid(txID)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, offerID, gotOffer)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTransactionPaid_UnknownTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	txID := uuid.New()
	mock.ExpectQuery(`UPDATE transactions SET is_paid`).
		WithArgs(txID).
		WillReturnRows(sqlmock.NewRows([]string{"offer_id"}))
	mock.ExpectQuery(`SELECT offer_id, is_paid FROM transactions`).
		WithArgs(txID).
		WillReturnError(sql.ErrNoRows)

	_, _, err = q.MarkTransactionPaid(txID)
	require.ErrorIs(t, err, escrow.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOffers_ScopedAndPaged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	viewerID := uuid.New()
	sellerID := uuid.New()
	offerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM offers o`).
		WithArgs(viewerID, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT o.id, o.amount`).
		WithArgs(viewerID, "pending", OffersPerPage, 0).
		WillReturnRows(offerRow(offerID, viewerID, sellerID, "pending"))

	status := escrow.StatusPending
	page, err := q.ListOffers(viewerID, &status, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)

	got := page.Data[0]
	assert.Equal(t, offerID, got.ID)
	assert.Equal(t, escrow.StatusPending, got.Status)
	assert.Equal(t, "buyer", got.UserType, "viewer is the buyer on this offer")
	assert.Equal(t, []string{"https://cdn.example.com/maize.jpg"}, got.Product.Images)
	assert.Nil(t, got.Transaction)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOffers_PagePastLastIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	viewerID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM offers o`).
		WithArgs(viewerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT o.id, o.amount`).
		WithArgs(viewerID, OffersPerPage, OffersPerPage).
		WillReturnRows(sqlmock.NewRows(offerColumns))

	page, err := q.ListOffers(viewerID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Data)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepAbandoned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	q := OfferQueries{DB: db}

	cutoff := time.Now().Add(-72 * time.Hour)
	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(`UPDATE offers SET status`).
		WithArgs("abandoned", "in_escrow", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first.String()).AddRow(second.String()))

	ids, err := q.SweepAbandoned(cutoff)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)

	// nothing left to sweep: the same statement is a no-op
	mock.ExpectQuery(`UPDATE offers SET status`).
		WithArgs("abandoned", "in_escrow", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	ids, err = q.SweepAbandoned(cutoff)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, mock.ExpectationsWereMet())
}
