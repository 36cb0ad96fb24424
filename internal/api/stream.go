package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"restodash/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WasteEvent is pushed to stream clients after every new entry
type WasteEvent struct {
	Type      string                 `json:"type"`
	Entry     *models.WasteEntry     `json:"entry,omitempty"`
	Analytics *models.WasteAnalytics `json:"analytics"`
}

// wasteConn is one websocket client of the waste stream
type wasteConn struct {
	conn   *websocket.Conn
	send   chan []byte
	log    *logrus.Entry
	mu     sync.Mutex
	closed bool
}

// StreamWaste upgrades to a websocket that receives the current analytics
// and then an update after every logged entry
func (s *Server) StreamWaste(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Failed to upgrade waste stream")
		return
	}

	wc := &wasteConn{
		conn: conn,
		send: make(chan []byte, 16),
		log:  logrus.WithField("remote", conn.RemoteAddr().String()),
	}

	snapshot, err := s.wasteEvent("snapshot", nil)
	if err != nil {
		wc.log.WithError(err).Error("Failed to build waste snapshot")
		conn.Close()
		return
	}
	wc.enqueue(snapshot)

	unsubscribe := s.waste.Subscribe(func(entry models.WasteEntry) {
		event, err := s.wasteEvent("entry", &entry)
		if err != nil {
			wc.log.WithError(err).Error("Failed to build waste update")
			return
		}
		wc.enqueue(event)
	})

	go wc.writePump()
	go func() {
		wc.readPump()
		unsubscribe()
		wc.close()
	}()
}

func (s *Server) wasteEvent(kind string, entry *models.WasteEntry) ([]byte, error) {
	analytics, err := s.waste.Analytics()
	if err != nil {
		return nil, err
	}
	return json.Marshal(WasteEvent{Type: kind, Entry: entry, Analytics: analytics})
}

// enqueue drops the message when the client is not keeping up
func (c *wasteConn) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("Waste stream buffer full, dropping message")
	}
}

func (c *wasteConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump discards client messages and returns when the client goes away
func (c *wasteConn) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("Waste stream closed unexpectedly")
			}
			return
		}
	}
}

func (c *wasteConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
