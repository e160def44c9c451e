package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

// handleWebsocket serves the websocket variant of the chat endpoint. Each
// text frame carries one TurnRequest; each reply frame carries one
// TurnResponse. The session id travels in the payload, same as POST /chat,
// so a reconnecting widget resumes its conversation.
func (g *Gateway) handleWebsocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()

		g.readLoop(r.Context(), conn)
	}
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			g.logger.Debug("websocket read ended", "error", err)
			return
		}

		var req TurnRequest
		if err := json.Unmarshal(data, &req); err != nil {
			g.writeFrame(ctx, conn, map[string]string{"error": "invalid message format"})
			continue
		}

		resp, err := g.runTurn(ctx, req)
		if err != nil {
			g.writeFrame(ctx, conn, map[string]string{"error": err.Error()})
			continue
		}
		g.writeFrame(ctx, conn, resp)
	}
}

func (g *Gateway) writeFrame(ctx context.Context, conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		g.logger.Error("websocket marshal failed", "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Debug("websocket write failed", "error", err)
	}
}
