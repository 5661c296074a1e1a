package server

import (
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"PriceChart/internal/chart"
	"PriceChart/internal/interact"
	"PriceChart/internal/layout"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// Message types exchanged over the websocket.
const (
	MsgResize       = "resize"
	MsgPointerEnter = "pointerenter"
	MsgPointerMove  = "pointermove"
	MsgPointerLeave = "pointerleave"
	MsgScene        = "scene"
	MsgFocus        = "focus"
)

// ClientMessage is an event sent by the browser.
type ClientMessage struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// SceneMessage carries a full redraw.
type SceneMessage struct {
	Type string `json:"type"`
	SVG  string `json:"svg"`
}

// FocusMessage carries the crosshair position and legend after a pointer event.
// X2 and Y2 are the lengths of the horizontal and vertical guides.
type FocusMessage struct {
	Type    string   `json:"type"`
	Visible bool     `json:"visible"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	X2      float64  `json:"x2"`
	Y2      float64  `json:"y2"`
	Legend  []string `json:"legend,omitempty"`
}

// Session is one browser connection driving its own chart.
type Session struct {
	ID    uuid.UUID
	conn  *websocket.Conn
	chart *chart.Chart
	size  *layout.ManualSource

	writeMu sync.Mutex
}

func newSession(conn *websocket.Conn, opts chart.Options) *Session {
	s := &Session{
		ID:    uuid.New(),
		conn:  conn,
		chart: chart.New(opts),
		size:  layout.NewManualSource(),
	}
	s.chart.OnRedraw(func(svg string) {
		s.send(SceneMessage{Type: MsgScene, SVG: svg})
	})
	return s
}

// run reads client events until the connection closes.
func (s *Session) run() {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] session %s read: %v", s.ID, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WARN] session %s: bad frame: %v", s.ID, err)
			continue
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgResize:
		s.size.Set(layout.Size{Width: msg.Width, Height: msg.Height})
	case MsgPointerEnter:
		s.chart.OnPointerEnter()
		s.sendFocus()
	case MsgPointerMove:
		s.chart.OnPointerMove(msg.X, msg.Y)
		s.sendFocus()
	case MsgPointerLeave:
		s.chart.OnPointerLeave()
		s.sendFocus()
	default:
		log.Printf("[WARN] session %s: unknown message type %q", s.ID, msg.Type)
	}
}

func (s *Session) sendFocus() {
	msg := FocusMessage{Type: MsgFocus}
	f, ok := s.chart.Focus()
	if ok && s.chart.State() == interact.Hovering && finite(f.X) && finite(f.Y) {
		d := s.chart.Dimensions()
		msg.Visible = true
		msg.X, msg.Y = f.X, f.Y
		msg.X2, msg.Y2 = d.BoundedWidth-f.X, d.BoundedHeight-f.Y
		msg.Legend = f.Legend
	}
	s.send(msg)
}

func (s *Session) send(v interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		log.Printf("[WARN] session %s write: %v", s.ID, err)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
