package controllers

import (
	"log"

	"github.com/agrovest/agrovest-backend/pkg/utils"
	"github.com/gofiber/websocket/v2"
)

// OfferSocket upgrades a connection for offer status notifications. The
// token travels as a query param because browsers cannot set headers on
// websocket upgrades.
func OfferSocket(conn *websocket.Conn) {
	token := conn.Query("token")
	userID, err := utils.ExtractUserIDFromHeader("Bearer " + token)
	if err != nil {
		log.Printf("event=ws_reject error=%v", err)
		_ = conn.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, conn)
	defer utils.DefaultNotifier.UnregisterConn(userID, conn)

	// drain until the client goes away; the server never reads payloads
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
