package v1

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/votaciones-campus/api/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// resultsMessage is what live subscribers receive.
type resultsMessage struct {
	Type    string                 `json:"type"`
	Results domain.CampaignResults `json:"results"`
}

type subscriber struct {
	campaignID uint
	conn       *websocket.Conn
	send       chan []byte
}

type update struct {
	campaignID uint
	payload    []byte
}

// ResultsHub fans out campaign tallies to websocket subscribers of that campaign.
type ResultsHub struct {
	subscribers map[uint]map[*subscriber]struct{}

	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan update
	done       chan struct{}
	stopOnce   sync.Once
}

func NewResultsHub() *ResultsHub {
	return &ResultsHub{
		subscribers: make(map[uint]map[*subscriber]struct{}),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		broadcast:   make(chan update, 64),
		done:        make(chan struct{}),
	}
}

// Run owns the subscriber set. It returns after Stop.
func (h *ResultsHub) Run() {
	for {
		select {
		case s := <-h.register:
			if h.subscribers[s.campaignID] == nil {
				h.subscribers[s.campaignID] = make(map[*subscriber]struct{})
			}
			h.subscribers[s.campaignID][s] = struct{}{}
		case s := <-h.unregister:
			h.remove(s)
		case u := <-h.broadcast:
			for s := range h.subscribers[u.campaignID] {
				select {
				case s.send <- u.payload:
				default:
					// Slow reader, drop it.
					h.remove(s)
				}
			}
		case <-h.done:
			for _, set := range h.subscribers {
				for s := range set {
					close(s.send)
				}
			}
			h.subscribers = map[uint]map[*subscriber]struct{}{}
			return
		}
	}
}

func (h *ResultsHub) remove(s *subscriber) {
	set, ok := h.subscribers[s.campaignID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}

	delete(set, s)
	close(s.send)
	if len(set) == 0 {
		delete(h.subscribers, s.campaignID)
	}
}

func (h *ResultsHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Publish queues results for every subscriber of the campaign. It never blocks;
// when the queue is full the update is dropped since the next vote publishes a
// newer tally anyway.
func (h *ResultsHub) Publish(results domain.CampaignResults) {
	payload, err := json.Marshal(resultsMessage{Type: "results", Results: results})
	if err != nil {
		zap.L().Warn("marshal live results", zap.Uint("campaign_id", results.ID), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- update{campaignID: results.ID, payload: payload}:
	case <-h.done:
	default:
		zap.L().Warn("live results queue full, update dropped", zap.Uint("campaign_id", results.ID))
	}
}

// Subscribe attaches conn to the campaign feed, sends initial first and blocks
// until the client goes away.
func (h *ResultsHub) Subscribe(conn *websocket.Conn, initial domain.CampaignResults) {
	s := &subscriber{
		campaignID: initial.ID,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
	}

	payload, err := json.Marshal(resultsMessage{Type: "results", Results: initial})
	if err == nil {
		s.send <- payload
	}

	select {
	case h.register <- s:
	case <-h.done:
		conn.Close()
		return
	}

	go s.writePump()
	s.readPump(h)
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only keeps the connection alive. Clients have nothing to send.
func (s *subscriber) readPump(h *ResultsHub) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live results connection closed", zap.Uint("campaign_id", s.campaignID), zap.Error(err))
			}
			return
		}
	}
}

// newUpgrader accepts websocket handshakes from the given origins. A "*" entry
// accepts any origin.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowed["*"] || allowed[origin] {
				return true
			}

			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}
