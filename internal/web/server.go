package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Attitude data is not sensitive; allow dashboards served from
	// anywhere to connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeTimeout = 5 * time.Second

// attitudeHandler upgrades the connection and streams every published
// attitude as a JSON array until the client goes away.
func attitudeHandler(b *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: upgrade from %s: %v", r.RemoteAddr, err)
			return
		}

		id, ch := b.Subscribe(4)
		defer b.Unsubscribe(id)
		defer conn.Close()

		// Drain client frames so close handshakes and pings are
		// processed; we never expect payload from the client.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case a, ok := <-ch:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON([4]float64{a.YawRad, a.PitchRad, a.RollRad, a.TemperatureC}); err != nil {
					return
				}
			}
		}
	}
}

// Serve runs the WebSocket endpoint at /attitude until ctx is cancelled,
// then shuts the listener down.
func Serve(ctx context.Context, addr string, b *Broadcaster) error {
	mux := http.NewServeMux()
	mux.Handle("/attitude", attitudeHandler(b))

	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		<-errc
		return nil
	case err := <-errc:
		return err
	}
}
