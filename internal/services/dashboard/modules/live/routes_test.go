package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

func newSimulator(t *testing.T, interval time.Duration) *detection.Simulator {
	t.Helper()

	sim := detection.NewSimulator(detection.Options{
		Interval: interval,
		Display:  time.Minute,
		Source: detection.SourceFunc(func(context.Context) (dataset.AlertType, error) {
			return dataset.AlertDrunk, nil
		}),
	})
	t.Cleanup(sim.Close)
	return sim
}

func newHandler(t *testing.T, sim *detection.Simulator) http.Handler {
	t.Helper()

	mount, err := New().Mount(module.Dependencies{
		ResolveSimulator: func(*http.Request) (*detection.Simulator, error) { return sim, nil },
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if mount.Role != session.RoleUser {
		t.Fatalf("role = %q, want %q", mount.Role, session.RoleUser)
	}
	return mount.Handler
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestMountRequiresSimulatorResolver(t *testing.T) {
	t.Parallel()

	if _, err := New().Mount(module.Dependencies{}); err == nil {
		t.Fatal("expected mount error")
	}
}

func TestRegisterRoutesLivePathAndMethodContracts(t *testing.T) {
	t.Parallel()

	h := newHandler(t, newSimulator(t, time.Hour))
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "page", method: http.MethodGet, path: routepath.LiveDetection, wantStatus: http.StatusOK},
		{name: "page slash", method: http.MethodGet, path: routepath.LiveDetectionPrefix, wantStatus: http.StatusOK},
		{name: "current", method: http.MethodGet, path: routepath.LiveDetectionCurrent, wantStatus: http.StatusOK},
		{name: "start get rejected", method: http.MethodGet, path: routepath.LiveDetectionStart, wantStatus: http.StatusMethodNotAllowed},
		{name: "stream without upgrade", method: http.MethodGet, path: routepath.LiveDetectionStream, wantStatus: http.StatusBadRequest},
		{name: "unknown", method: http.MethodGet, path: routepath.LiveDetectionPrefix + "replay", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if rr := serve(h, tc.method, tc.path); rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestStartAndStopControlSimulator(t *testing.T) {
	t.Parallel()

	sim := newSimulator(t, time.Hour)
	h := newHandler(t, sim)

	if body := serve(h, http.MethodGet, routepath.LiveDetection).Body.String(); !strings.Contains(body, "Start Detection") {
		t.Fatal("idle page missing start control")
	}

	rr := serve(h, http.MethodPost, routepath.LiveDetectionStart)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.LiveDetection {
		t.Fatalf("start = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := sim.Status().State; got != detection.Active {
		t.Fatalf("state = %q, want %q", got, detection.Active)
	}
	if body := serve(h, http.MethodGet, routepath.LiveDetection).Body.String(); !strings.Contains(body, "Stop Detection") {
		t.Fatal("active page missing stop control")
	}

	var msg message
	if err := json.Unmarshal(serve(h, http.MethodGet, routepath.LiveDetectionCurrent).Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode current: %v", err)
	}
	if msg.Kind != EventSnapshot || msg.State != detection.Active {
		t.Fatalf("current = %+v", msg)
	}

	serve(h, http.MethodPost, routepath.LiveDetectionStop)
	if got := sim.Status().State; got != detection.Idle {
		t.Fatalf("state = %q, want %q", got, detection.Idle)
	}
}

func TestStartOnClosedSimulatorConflicts(t *testing.T) {
	t.Parallel()

	sim := newSimulator(t, time.Hour)
	sim.Close()
	if rr := serve(newHandler(t, sim), http.MethodPost, routepath.LiveDetectionStart); rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCurrentReportsResolveErrorAsJSON(t *testing.T) {
	t.Parallel()

	mount, err := New().Mount(module.Dependencies{
		ResolveSimulator: func(*http.Request) (*detection.Simulator, error) {
			return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "open scope", errors.New("down"))
		},
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	rr := serve(mount.Handler, http.MethodGet, routepath.LiveDetectionCurrent)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content type = %q", rr.Header().Get("Content-Type"))
	}
}

func TestStreamSendsSnapshotThenAlerts(t *testing.T) {
	t.Parallel()

	sim := newSimulator(t, 10*time.Millisecond)
	srv := httptest.NewServer(newHandler(t, sim))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + routepath.LiveDetectionStream
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if first.Kind != EventSnapshot || first.State != detection.Idle {
		t.Fatalf("snapshot = %+v", first)
	}

	if err := sim.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if msg.Kind != detection.EventAlert {
			continue
		}
		if msg.Alert == nil || msg.Alert.Type != dataset.AlertDrunk {
			t.Fatalf("alert = %+v", msg.Alert)
		}
		if msg.Label != "Impairment detected" {
			t.Fatalf("label = %q, want %q", msg.Label, "Impairment detected")
		}
		return
	}
}

func TestStreamClosesWhenSimulatorCloses(t *testing.T) {
	t.Parallel()

	sim := newSimulator(t, time.Hour)
	srv := httptest.NewServer(newHandler(t, sim))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+routepath.LiveDetectionStream, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot message
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	sim.Close()

	for {
		var msg message
		err := conn.ReadJSON(&msg)
		if err == nil {
			continue
		}
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			t.Fatalf("read after close = %v, want normal closure", err)
		}
		return
	}
}
