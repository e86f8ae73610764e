package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and immediately closes it with
// a policy-violation code. A WebSocket upgrade path is reserved here for
// future push notifications but is not required by the core; this keeps
// the route reachable without implementing the push protocol.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "push notifications are not implemented")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
}
