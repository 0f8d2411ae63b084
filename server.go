package statsboard

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard/pkg/stats"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// BoardState is served on /api/board and sent to websocket clients on connect
type BoardState struct {
	Elements map[string]Element `json:"elements"`
	History  []HistoryPoint     `json:"history"`
	Stats    stats.BoardStats   `json:"stats"`
}

func (b *Board) State() BoardState {
	return BoardState{
		Elements: b.Registry.State(),
		History:  b.Poller.State().History.Points(),
		Stats:    b.Stats(),
	}
}

// Handler returns the board http routes
func (b *Board) Handler() http.Handler {
	plain := http.NewServeMux()
	plain.HandleFunc("/", b.indexHandler)
	plain.HandleFunc("/api/board", b.stateHandler)
	plain.HandleFunc("/ping", pingHandler)

	mux := http.NewServeMux()
	mux.Handle("/", handlers.LoggingHandler(accessLogWriter{}, handlers.CompressHandler(plain)))
	// websocket connections need the raw ResponseWriter for hijacking
	mux.HandleFunc("/ws", b.wsHandler)
	return mux
}

// accessLogWriter passes access log lines to logrus at debug level
type accessLogWriter struct{}

func (accessLogWriter) Write(p []byte) (int, error) {
	logrus.Debug(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func pingHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"alive": true}`))
}

func (b *Board) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (b *Board) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(b.State()); err != nil {
		logrus.WithError(err).Errorln("failed to encode board state")
	}
}

func (b *Board) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warnln("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, unsubscribe := b.Registry.Subscribe()
	defer unsubscribe()

	// reader loop, only used to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(b.State()); err != nil {
		logrus.WithError(err).Debugln("websocket write failed")
		return
	}

	for {
		select {
		case <-closed:
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(upd); err != nil {
				logrus.WithError(err).Debugln("websocket write failed")
				return
			}
		}
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Statsboard</title>
<style>
@keyframes beat { 0%, 100% { transform: scale(1); } 50% { transform: scale(1.2); } }
#heart { display: inline-block; animation: beat 1s infinite; color: #c0392b; }
.card { display: inline-block; margin: 8px; padding: 8px 16px; border: 1px solid #ddd; }
</style>
</head>
<body>
<h1>Statsboard <span id="heart">&#10084;</span></h1>
<div class="card">Total <b id="totalRequests">-</b></div>
<div class="card">200 <b id="requests200">-</b> <small id="percent200"></small></div>
<div class="card">404 <b id="requests404">-</b> <small id="percent404"></small></div>
<div class="card">500 <b id="requests500">-</b> <small id="percent500"></small></div>
<div class="card">Served <b id="bytesServed">-</b></div>
<div class="card">Cache <b id="cacheHitRate">-</b> (<span id="cacheHits"></span> / <span id="cacheMisses"></span>)</div>
<div class="card">Uptime <b id="uptime">-</b></div>
<div class="card">Avg <b id="avgResponseTime">-</b></div>
<div class="card"><b id="reqPerSec">-</b></div>
<p>Last update: <span id="lastUpdate">-</span></p>
<script>
function apply(id, u) {
  var el = document.getElementById(id);
  if (!el) return;
  if (u.text !== undefined) el.textContent = u.text;
  if (u.property) el.style.setProperty(u.property, u.value);
}
var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = function (ev) {
  var msg = JSON.parse(ev.data);
  if (msg.elements) {
    Object.keys(msg.elements).forEach(function (id) {
      var el = msg.elements[id];
      apply(id, {text: el.text});
      Object.keys(el.styles || {}).forEach(function (p) { apply(id, {property: p, value: el.styles[p]}); });
    });
    return;
  }
  apply(msg.id, msg);
};
</script>
</body>
</html>
`
