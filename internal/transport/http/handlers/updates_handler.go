package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// UpdatesHandler streams aggregator update events to a browser over a
// websocket. Polling against the result store remains the source mechanism;
// this is just the delivery channel to the page.
type UpdatesHandler struct {
	aggregator *services.Aggregator
	logger     *logger.Logger
}

func NewUpdatesHandler(aggregator *services.Aggregator, logger *logger.Logger) *UpdatesHandler {
	return &UpdatesHandler{aggregator: aggregator, logger: logger}
}

func (h *UpdatesHandler) Handle(conn *websocket.Conn) {
	updates := make(chan domain.TaskUpdate, 64)
	unsubscribe := h.aggregator.Subscribe(func(update domain.TaskUpdate) {
		select {
		case updates <- update:
		default:
			// Slow consumer; drop rather than block the poll loop. The next
			// tick re-delivers current state anyway.
		}
	})
	defer unsubscribe()

	h.logger.Infow("updates_ws_connected", "remote", conn.RemoteAddr().String())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			h.logger.Infow("updates_ws_disconnected", "remote", conn.RemoteAddr().String())
			return
		case update := <-updates:
			if err := conn.WriteJSON(update); err != nil {
				h.logger.Warnw("updates_ws_write_failed", "error", err)
				return
			}
		}
	}
}
