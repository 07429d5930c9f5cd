package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/controlbot/internal/config"
	"github.com/relabs-tech/controlbot/internal/telemetry"
)

const logviewPage = `<!DOCTYPE html>
<html>
<head><title>controlbot log</title></head>
<body>
<h1>controlbot telemetry replay</h1>
<pre id="out"></pre>
<script>
const out = document.getElementById("out");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const r = JSON.parse(ev.data);
  out.textContent =
    "t       " + (r.millis / 1000).toFixed(2) + " s\n" +
    "heading " + r.heading.toFixed(3) + " rad (d " + r.heading_delta.toFixed(3) + ")\n" +
    "left    " + r.left_pos + " (d " + r.left_delta + ")\n" +
    "right   " + r.right_pos + " (d " + r.right_delta + ")\n" +
    "z       " + r.z;
};
</script>
</body>
</html>
`

// RunLogView loads a recorded telemetry file and serves it on addr:
// the whole run as JSON under /api/records, and a paced replay over
// a websocket under /ws. Workstation tooling for eyeballing a run
// after the card comes out of the robot.
func RunLogView(addr, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log %q: %w", path, err)
	}
	defer f.Close()

	cfg := config.Get()
	var records []telemetry.Record
	switch cfg.TelemetryMode {
	case config.ModeBinary:
		records, err = telemetry.ParseBinary(f)
	case config.ModeCSV:
		records, err = telemetry.ParseCSV(f)
	default:
		return fmt.Errorf("unknown telemetry mode %q", cfg.TelemetryMode)
	}
	if err != nil {
		// A truncated tail is normal for a run ended by pulling
		// power; serve what decoded.
		log.Printf("logview: %v (serving %d records)", err, len(records))
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %q", path)
	}
	log.Printf("logview: loaded %d records from %s", len(records), path)

	upgrader := websocket.Upgrader{}

	http.HandleFunc("/api/records", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			log.Printf("logview: json encode error: %v", err)
		}
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("logview: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		// Replay at recorded pace. CSV logs carry no timestamps, so
		// they replay at the configured tick interval.
		for i, rec := range records {
			if err := conn.WriteJSON(rec); err != nil {
				return
			}
			gap := time.Duration(cfg.TickInterval) * time.Millisecond
			if i+1 < len(records) && records[i+1].Millis > rec.Millis {
				gap = time.Duration(records[i+1].Millis-rec.Millis) * time.Millisecond
			}
			time.Sleep(gap)
		}
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, logviewPage)
	})

	log.Printf("logview: listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
