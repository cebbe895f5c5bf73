package utils

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// CreatePaymentLink asks Midtrans Snap for a checkout page for the given
// order. The transaction id doubles as the Midtrans order id, so the
// webhook can route notifications back to the right row. A gateway
// failure surfaces as escrow.ErrUpstream and must leave the offer alone.
func CreatePaymentLink(orderID string, amount int64) (string, error) {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return "", errors.New("midtrans server key not set")
	}

	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
	}

	resp, snapErr := client.CreateTransaction(req)
	if snapErr != nil {
		return "", fmt.Errorf("%w: %v", escrow.ErrUpstream, snapErr)
	}
	if resp.RedirectURL == "" {
		return "", fmt.Errorf("%w: no redirect url returned", escrow.ErrUpstream)
	}
	return resp.RedirectURL, nil
}

// ValidMidtransSignature checks the signature_key Midtrans attaches to
// webhook payloads: sha512 over order_id + status_code + gross_amount +
// server key. With no server key configured the check is skipped so local
// setups without gateway credentials keep working.
func ValidMidtransSignature(orderID, statusCode, grossAmount, signature string) bool {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return true
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
