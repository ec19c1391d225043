package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/model"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 10 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// wsInbound is a command sent by the client.
type wsInbound struct {
	Type    string             `json:"type"`
	Key     string             `json:"key,omitempty"`
	Value   string             `json:"value,omitempty"`
	Filters *model.FilterState `json:"filters,omitempty"`
	Page    int                `json:"page,omitempty"`
}

// wsOutbound carries a fresh view or an error back to the client.
type wsOutbound struct {
	Type    string      `json:"type"`
	View    *model.View `json:"view,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StreamView pushes the session's view on every change
// @Summary View stream
// @Description Websocket. Sends {"type":"view"} messages on every change. Accepts set_filter, set_filters, reset, next, prev, goto, refresh and ping commands.
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 101
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/ws [get]
func (h *DashboardHandler) StreamView(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pongWait := h.pingInterval * 10 / 9
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("⚠ ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writeCh := make(chan wsOutbound, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	views := s.Subscribe(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-views:
				if !ok {
					cancel()
					return
				}
				push(writeCh, wsOutbound{Type: "view", View: &v})
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		if strings.EqualFold(strings.TrimSpace(in.Type), "ping") {
			push(writeCh, wsOutbound{Type: "pong"})
			continue
		}
		if msg := handleCommand(s, in); msg != "" {
			push(writeCh, wsOutbound{Type: "error", Message: msg})
		}
	}
}

// handleCommand applies one client command; the resulting view arrives through
// the subscription. It returns an error message for the client, if any.
func handleCommand(s *dashboard.Session, in wsInbound) string {
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "set_filter":
		if _, err := s.SetFilter(model.FilterKey(in.Key), in.Value); err != nil {
			return err.Error()
		}
	case "set_filters":
		if in.Filters == nil {
			return "filters is required"
		}
		s.SetFilters(*in.Filters)
	case "reset":
		s.Reset()
	case "next":
		s.NextPage()
	case "prev":
		s.PrevPage()
	case "goto":
		s.GotoPage(in.Page)
	case "refresh":
		s.GotoPage(s.State().Page)
	case "":
		return "type is required"
	default:
		return "unsupported type: " + in.Type
	}
	return ""
}

// push never blocks: a full queue loses its oldest message.
func push(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
