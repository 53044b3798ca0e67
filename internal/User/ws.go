package user

import (
	"Vitalog/internal/utility"

	"github.com/labstack/echo/v4"
)

// WebSocketHandler keeps a connection open so the dashboard learns when the
// caller's readings change. The client only listens; anything it sends is
// discarded.
func WebSocketHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	ws, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	hub.RegisterClient(userID, ws)
	defer func() {
		hub.UnregisterClient(userID, ws)
		ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}
