package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aljokwa/brandonJJGame/game"
)

// ---------- helpers ----------

// startTestServer spins up an httptest.Server with a running session and
// returns the server, its session and its WebSocket URL.
func startTestServer(t *testing.T) (*httptest.Server, *Session, string) {
	t.Helper()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>chicken</html>"), 0o644)

	db := openTestDB(t)
	analytics := NewAnalytics(db)
	sess, err := NewSession(SessionOptions{Tuning: game.DefaultTuning(), DB: db, Analytics: analytics})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	hub := NewHub(sess)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	go hub.Run(ctx.Done())

	mux := SetupRoutes(hub, RouteOptions{ClientDir: tmpDir, DB: db, Analytics: analytics})
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		analytics.Stop()
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return srv, sess, wsURL
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until a JSON envelope of type want arrives.
// Binary state frames and other envelopes are skipped.
func readUntil(t *testing.T, conn *websocket.Conn, want string) InEnvelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS waiting for %s: %v", want, err)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if env.T == want {
			return env
		}
	}
}

// readState reads messages until a state frame matching ok arrives.
func readState(t *testing.T, conn *websocket.Conn, ok func(StateMsg) bool) StateMsg {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS waiting for state: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		var msg StateMsg
		if err := msgpack.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		if ok(msg) {
			return msg
		}
	}
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{T: msgType, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// ---------- websocket ----------

func TestWelcomeOnConnect(t *testing.T) {
	_, sess, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)

	env := readUntil(t, conn, MsgWelcome)
	var w WelcomeMsg
	if err := json.Unmarshal(env.D, &w); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if w.SessionID != sess.ID {
		t.Errorf("expected sid %s, got %s", sess.ID, w.SessionID)
	}
	if w.ConnID == "" {
		t.Error("expected a connection id")
	}
	if w.Tuning.BossHealth != 200 {
		t.Errorf("welcome should carry tuning, got %+v", w.Tuning)
	}
}

func TestClaimOverWebSocket(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	c1 := dialWS(t, wsURL)
	c2 := dialWS(t, wsURL)
	readUntil(t, c1, MsgWelcome)
	readUntil(t, c2, MsgWelcome)

	sendMsg(t, c1, MsgClaim, ClaimMsg{Seat: game.Brandon})
	env := readUntil(t, c1, MsgSeat)
	var seat SeatMsg
	json.Unmarshal(env.D, &seat)
	if seat.Seat != game.Brandon || seat.Token == "" {
		t.Errorf("bad seat reply %+v", seat)
	}

	sendMsg(t, c2, MsgClaim, ClaimMsg{Seat: game.Brandon})
	env = readUntil(t, c2, MsgError)
	var e ErrorMsg
	json.Unmarshal(env.D, &e)
	if !strings.Contains(e.Msg, "seat taken") {
		t.Errorf("expected seat taken, got %q", e.Msg)
	}

	// Reconnect with the token from another connection
	sendMsg(t, c2, MsgClaim, ClaimMsg{Seat: game.Brandon, Token: seat.Token})
	readUntil(t, c2, MsgSeat)
}

func TestBinaryInputMovesPlayers(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	readUntil(t, conn, MsgWelcome)

	sendMsg(t, conn, MsgClaim, ClaimMsg{Seat: SeatBoth})
	readUntil(t, conn, MsgSeat)

	if err := conn.WriteMessage(websocket.BinaryMessage, EncodeBinaryInput(InputFrame{Right: true})); err != nil {
		t.Fatalf("write: %v", err)
	}
	state := readState(t, conn, func(s StateMsg) bool {
		b, _ := s.Snapshot.Player(game.Brandon)
		return b.Pos.X > game.BrandonStart.X
	})
	if !state.Seats[game.SeatBrandon] || !state.Seats[game.SeatJJ] {
		t.Errorf("both seats should show as taken, got %v", state.Seats)
	}
	jj, _ := state.Snapshot.Player(game.JJ)
	if jj.Pos.X <= game.JJStart.X {
		t.Errorf("JJ should move with Brandon, at %+v", jj.Pos)
	}
}

func TestRestartRequiresSeat(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	readUntil(t, conn, MsgWelcome)

	sendMsg(t, conn, MsgRestart, nil)
	readUntil(t, conn, MsgError)

	sendMsg(t, conn, MsgClaim, ClaimMsg{Seat: game.JJ})
	readUntil(t, conn, MsgSeat)
	sendMsg(t, conn, MsgRestart, nil)
	readUntil(t, conn, MsgTuning)
}

// ---------- HTTP ----------

func TestQRCode(t *testing.T) {
	srv, _, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/qr?seat=JJ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	bad, err := http.Get(srv.URL + "/qr?seat=Alec")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown seat, got %d", bad.StatusCode)
	}
}

func TestJoinURL(t *testing.T) {
	r := httptest.NewRequest("GET", "http://game.local:8080/qr?seat=JJ", nil)
	if got := joinURL("", r, "JJ"); got != "http://game.local:8080/?seat=JJ" {
		t.Errorf("derived url %q", got)
	}
	if got := joinURL("https://chicken.example/", r, "both"); got != "https://chicken.example/?seat=both" {
		t.Errorf("public url %q", got)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, sess, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.SessionID != sess.ID {
		t.Errorf("expected sid %s, got %s", sess.ID, stats.SessionID)
	}
	if len(stats.Players) != game.SeatCount {
		t.Errorf("expected %d players, got %d", game.SeatCount, len(stats.Players))
	}
	if stats.Rounds == nil {
		t.Error("rounds should be an empty list, not null")
	}
}

func TestHealthzAndStatic(t *testing.T) {
	srv, _, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("expected ok, got %q", body)
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "chicken") {
		t.Errorf("expected index.html, got %q", body)
	}
}
