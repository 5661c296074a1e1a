// Package server hosts the chart over HTTP and drives per-browser chart
// sessions over a websocket.
package server

import (
	"context"
	"errors"
	"html/template"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"PriceChart/internal/chart"
	"PriceChart/internal/layout"
	"PriceChart/internal/model"
	"PriceChart/internal/scale"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// maxDimension bounds the size accepted by /chart.svg.
const maxDimension = 10000

// Options configures the server.
type Options struct {
	Addr        string
	CORSOrigins []string
	Title       string
	Size        layout.Size
	Chart       chart.Options
}

// Server serves the chart page, one-off SVG renders, the series and websocket sessions.
type Server struct {
	opts     Options
	hub      *Hub
	engine   *gin.Engine
	http     *http.Server
	upgrader websocket.Upgrader
}

// New wires the routes around hub.
func New(opts Options, hub *Hub) *Server {
	if opts.Title == "" {
		opts.Title = "Price Chart"
	}
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = layout.Size{Width: 800, Height: 400}
	}
	s := &Server{
		opts: opts,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	if len(opts.CORSOrigins) > 0 {
		allowed := make(map[string]bool, len(opts.CORSOrigins))
		for _, o := range opts.CORSOrigins {
			allowed[o] = true
		}
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.CORSOrigins
		corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
		r.Use(cors.New(corsConfig))
	}
	r.GET("/", s.handlePage)
	r.GET("/chart.svg", s.handleSVG)
	r.GET("/api/series", s.handleSeries)
	r.GET("/healthz", s.handleHealth)
	r.GET("/ws", s.handleWS)
	s.engine = r
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.opts.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
// Hijacked websocket connections are not tracked by net/http and are closed by the caller exiting.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handlePage(c *gin.Context) {
	svg, err := chart.RenderSVG(s.hub.Series(), s.opts.Size, s.opts.Chart)
	if err != nil && !errors.Is(err, scale.ErrEmptySeries) {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTemplate.Execute(c.Writer, pageData{
		Title:  s.opts.Title,
		Width:  s.opts.Size.Width,
		Height: s.opts.Size.Height,
		SVG:    template.HTML(inlineSVG(svg)),
	}); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) handleSVG(c *gin.Context) {
	size := s.opts.Size
	var err error
	if v := c.Query("width"); v != "" {
		if size.Width, err = parseDimension(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width: " + err.Error()})
			return
		}
	}
	if v := c.Query("height"); v != "" {
		if size.Height, err = parseDimension(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "height: " + err.Error()})
			return
		}
	}
	svg, err := chart.RenderSVG(s.hub.Series(), size, s.opts.Chart)
	if errors.Is(err, scale.ErrEmptySeries) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no series loaded"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// point is the JSON form of a PricePoint; non-finite values become null.
type point struct {
	Date   time.Time `json:"date"`
	Open   *float64  `json:"open"`
	High   *float64  `json:"high"`
	Low    *float64  `json:"low"`
	Close  *float64  `json:"close"`
	Volume *float64  `json:"volume"`
}

func toPoints(series model.Series) []point {
	out := make([]point, len(series))
	for i, p := range series {
		out[i] = point{
			Date:   p.Date,
			Open:   jsonFloat(p.Open),
			High:   jsonFloat(p.High),
			Low:    jsonFloat(p.Low),
			Close:  jsonFloat(p.Close),
			Volume: jsonFloat(p.Volume),
		}
	}
	return out
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (s *Server) handleSeries(c *gin.Context) {
	c.JSON(http.StatusOK, toPoints(s.hub.Series()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"points":   len(s.hub.Series()),
		"sessions": s.hub.Sessions(),
	})
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sess := newSession(conn, s.opts.Chart)
	if err := s.hub.attach(sess); err != nil {
		log.Printf("[ERROR] session %s mount: %v", sess.ID, err)
		return
	}
	defer s.hub.detach(sess)
	log.Printf("[INFO] session %s connected", sess.ID)

	sess.run()
	log.Printf("[INFO] session %s disconnected", sess.ID)
}

func parseDimension(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > maxDimension {
		return 0, errors.New("out of range")
	}
	return f, nil
}
