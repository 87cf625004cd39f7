package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"

	"github.com/aljokwa/brandonJJGame/game"
)

const (
	qrSize         = 256
	statsRoundsMax = 10
	statsDays      = 7
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// RouteOptions configures SetupRoutes
type RouteOptions struct {
	ClientDir string // static files, "" = none
	PublicURL string // base of QR join links, "" = derive from the request
	DB        *DB
	Analytics *Analytics
}

// StatsResponse is served at /api/stats
type StatsResponse struct {
	SessionID string            `json:"sid"`
	Tick      uint64            `json:"tick"`
	Clients   int               `json:"clients"`
	Seats     SeatsMsg          `json:"seats"`
	Players   []game.PlayerView `json:"players"`
	BossHP    int               `json:"boss_hp"`
	Rounds    []RoundRow        `json:"rounds"`
	Totals    []PlayerTotal     `json:"totals"`
	Events    map[string]int    `json:"events"`
	Hits      map[string]int    `json:"hits"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, opts RouteOptions) *http.ServeMux {
	mux := http.NewServeMux()

	if opts.ClientDir != "" {
		fs := http.FileServer(http.Dir(opts.ClientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// PNG QR code of the join link for a seat, for pairing a phone
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		seat := r.URL.Query().Get("seat")
		if _, err := seatIndexes(seat); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		png, err := qrcode.Encode(joinURL(opts.PublicURL, r, seat), qrcode.Medium, qrSize)
		if err != nil {
			log.Printf("qr: %v", err)
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		sess := hub.session
		snap := sess.Snapshot()
		resp := StatsResponse{
			SessionID: sess.ID,
			Tick:      snap.Tick,
			Clients:   hub.ClientCount(),
			Seats:     sess.Seats(),
			Players:   snap.Players,
			BossHP:    snap.Boss.Health,
			Rounds:    []RoundRow{},
		}
		if opts.DB != nil {
			if rounds, err := opts.DB.RecentRounds(statsRoundsMax); err == nil {
				resp.Rounds = rounds
			} else {
				log.Printf("stats: rounds: %v", err)
			}
			if totals, err := opts.DB.PlayerTotals(); err == nil {
				resp.Totals = totals
			} else {
				log.Printf("stats: totals: %v", err)
			}
		}
		if events, err := opts.Analytics.EventCounts(statsDays); err == nil {
			resp.Events = events
		}
		if hits, err := opts.Analytics.PlayerEventCounts(game.EventBossHit.String()); err == nil {
			resp.Hits = hits
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return mux
}

// joinURL builds the link a phone opens to take seat
func joinURL(public string, r *http.Request, seat string) string {
	base := strings.TrimSuffix(public, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/?seat=" + url.QueryEscape(seat)
}
