package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/infra/httpserver"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/httpapi/internal"
	"feinstaub-server/internal/telemetry/usecases"
	"feinstaub-server/internal/telemetry/workers"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, you should validate the origin
		return true
	},
}

const (
	_eventCurrentData = "currentData"
	_eventNewData     = "newData"

	_clientQueueSize = 8
	_writeTimeout    = 10 * time.Second
	_pongTimeout     = 60 * time.Second
	_pingInterval    = 54 * time.Second
)

type pushEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type newDataPayload struct {
	Current    internal.CurrentReadingResponse `json:"current"`
	Historical internal.HistoricalPoint        `json:"historical"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan pushEvent
}

type ReadingWebSocketController struct {
	service    usecases.ReadingService
	broker     async.InternalBroker
	clients    map[*wsClient]bool
	clientsMux sync.RWMutex
	register   chan *wsClient
	unregister chan *wsClient
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewReadingWebSocketController(service usecases.ReadingService, broker async.InternalBroker) *ReadingWebSocketController {
	ctx, cancel := context.WithCancel(context.Background())

	wsc := &ReadingWebSocketController{
		service:    service,
		broker:     broker,
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Start the hub
	go wsc.run()

	return wsc
}

var _ httpserver.Controller = (*ReadingWebSocketController)(nil)

func (wsc *ReadingWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws", wsc.handleWebSocket())
}

func (wsc *ReadingWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("new websocket connection established", slog.String("remote_addr", r.RemoteAddr))

		client := &wsClient{
			conn: conn,
			send: make(chan pushEvent, _clientQueueSize),
		}

		wsc.register <- client

		go wsc.writePump(client)
		go wsc.readPump(client)
	}
}

// readPump drains the connection so close frames and pongs are processed.
// Dashboard clients never send application data.
func (wsc *ReadingWebSocketController) readPump(client *wsClient) {
	defer func() {
		wsc.unregister <- client
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(_pongTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(_pongTimeout))
		return nil
	})

	for {
		_, _, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			break
		}
	}
}

func (wsc *ReadingWebSocketController) writePump(client *wsClient) {
	ticker := time.NewTicker(_pingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case <-wsc.ctx.Done():
			return
		case event, ok := <-client.send:
			if !ok {
				client.conn.SetWriteDeadline(time.Now().Add(_writeTimeout))
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(_writeTimeout))
			if err := client.conn.WriteJSON(event); err != nil {
				slog.Debug("websocket write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(_writeTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (wsc *ReadingWebSocketController) run() {
	subscription, err := wsc.broker.Subscribe(workers.BrokerTopicNewReading)
	if err != nil {
		slog.Error("failed to subscribe to reading events", slog.String("error", err.Error()))
		return
	}
	defer wsc.broker.Unsubscribe(workers.BrokerTopicNewReading, subscription)

	for {
		select {
		case <-wsc.ctx.Done():
			return

		case client := <-wsc.register:
			// The snapshot is resolved here, in the same goroutine that
			// broadcasts, so a reading arriving around connect time shows up
			// either in the snapshot or as a later delta, never in neither.
			if reading, err := wsc.service.Current(wsc.ctx); err == nil {
				client.send <- pushEvent{
					Event: _eventCurrentData,
					Data:  internal.ToCurrentReadingResponse(reading),
				}
			}

			wsc.clientsMux.Lock()
			wsc.clients[client] = true
			total := len(wsc.clients)
			wsc.clientsMux.Unlock()
			slog.Info("websocket client registered", slog.Int("total_clients", total))

		case client := <-wsc.unregister:
			wsc.dropClient(client)

		case brokerMsg, ok := <-subscription.Receiver:
			if !ok {
				return
			}
			if brokerMsg.Event != workers.EventNewReading {
				continue
			}
			reading, ok := brokerMsg.Value.(domain.Reading)
			if !ok {
				slog.Error("parsing message type", slog.String("error", "msg is not domain.Reading"))
				continue
			}
			wsc.broadcast(reading)
		}
	}
}

// broadcast fans one reading out to every connected client. The payload is
// built once; per-client work is a single buffered channel send, so one slow
// consumer can never stall the rest.
func (wsc *ReadingWebSocketController) broadcast(reading domain.Reading) {
	event := pushEvent{
		Event: _eventNewData,
		Data: newDataPayload{
			Current:    internal.ToCurrentReadingResponse(reading),
			Historical: internal.ToHistoricalPoint(reading),
		},
	}

	var stalled []*wsClient
	wsc.clientsMux.RLock()
	for client := range wsc.clients {
		select {
		case client.send <- event:
		default:
			stalled = append(stalled, client)
		}
	}
	wsc.clientsMux.RUnlock()

	for _, client := range stalled {
		slog.Warn("client queue full, disconnecting slow websocket client")
		wsc.dropClient(client)
	}
}

func (wsc *ReadingWebSocketController) dropClient(client *wsClient) {
	wsc.clientsMux.Lock()
	defer wsc.clientsMux.Unlock()

	if _, ok := wsc.clients[client]; !ok {
		return
	}
	delete(wsc.clients, client)
	close(client.send)
	client.conn.Close()
	slog.Info("websocket client unregistered", slog.Int("total_clients", len(wsc.clients)))
}

func (wsc *ReadingWebSocketController) Shutdown() {
	slog.Info("shutting down reading websocket controller")
	wsc.cancel()

	wsc.clientsMux.Lock()
	for client := range wsc.clients {
		delete(wsc.clients, client)
		close(client.send)
		client.conn.Close()
	}
	wsc.clientsMux.Unlock()
}
