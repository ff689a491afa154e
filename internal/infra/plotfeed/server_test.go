package plotfeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastReachesSubscriber(t *testing.T) {
	feed := NewServer()
	srv := httptest.NewServer(feed)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	series := MakeSeries("shape", -2, []float64{3, 2, 1, 2, 3})

	// The subscription registers asynchronously after the upgrade;
	// keep broadcasting until the client sees a message.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				feed.Broadcast(series)
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var got Series
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("subscriber never received a series: %v", err)
	}

	if got.Name != "shape" {
		t.Errorf("series name = %q, want shape", got.Name)
	}
	if len(got.Points) != 5 {
		t.Fatalf("got %d points, want 5", len(got.Points))
	}
	if got.Points[0].X != -2 || got.Points[0].Y != 3 {
		t.Errorf("first point = %+v, want {-2 3}", got.Points[0])
	}
}

func TestMakeSeries(t *testing.T) {
	s := MakeSeries("demo", 1, []float64{0.5, 0.25})
	if len(s.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(s.Points))
	}
	if s.Points[1].X != 2 || s.Points[1].Y != 0.25 {
		t.Errorf("second point = %+v, want {2 0.25}", s.Points[1])
	}
}
