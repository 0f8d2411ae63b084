package statsboard

// a mock stats endpoint used in tests and local development, it mimics the /api/stats
// route of the web server the dashboard was written for

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

type MockStatsServer struct {
	addr     string
	recorder *StatsRecorder
}

func NewMockStatsServer(addr string) *MockStatsServer {
	return &MockStatsServer{
		addr:     addr,
		recorder: NewStatsRecorder(),
	}
}

func (srv *MockStatsServer) URL() string {
	return "http://" + srv.addr + "/api/stats"
}

func (srv *MockStatsServer) Recorder() *StatsRecorder {
	return srv.recorder
}

// Handler serves GET /api/stats, ?fail=1 answers 500
func (srv *MockStatsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", srv.statsHandler)
	return handlers.CompressHandler(mux)
}

func (srv *MockStatsServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Query().Get("fail") != "" {
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(srv.recorder.Snapshot()); err != nil {
		logrus.WithError(err).Errorln("mockstats: failed to encode snapshot")
	}
}

// Simulate feeds random traffic into the recorder on every tick until ctx is done
func (srv *MockStatsServer) Simulate(ctx context.Context, clk clock.WithTicker, r *rand.Rand, every time.Duration) {
	ticker := clk.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			simulateTraffic(srv.recorder, r, 5+r.Intn(20))
		}
	}
}

func simulateTraffic(rec *StatsRecorder, r *rand.Rand, requests int) {
	for i := 0; i < requests; i++ {
		rec.ConnectionStart()
		status := randomStatus(r)
		var bytes uint64
		if status == http.StatusOK {
			bytes = uint64(200 + r.Intn(50000))
			if r.Intn(10) < 7 {
				rec.CacheHit()
			} else {
				rec.CacheMiss()
			}
		} else {
			bytes = uint64(100 + r.Intn(400))
		}
		rec.Update(status, bytes)
		rec.ConnectionEnd()
	}
}

func randomStatus(r *rand.Rand) int {
	switch n := r.Intn(100); {
	case n < 80:
		return http.StatusOK
	case n < 92:
		return http.StatusNotFound
	case n < 95:
		return http.StatusInternalServerError
	case n < 98:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

// Serve blocks until ctx is done or the listener fails
func (srv *MockStatsServer) Serve(ctx context.Context) error {
	go srv.Simulate(ctx, clock.RealClock{}, rand.New(rand.NewSource(time.Now().UnixNano())), time.Second)

	server := &http.Server{
		Addr:    srv.addr,
		Handler: handlers.LoggingHandler(os.Stdout, srv.Handler()),
	}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	logrus.Infof("mock stats endpoint listening at %s", srv.URL())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
