package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim"
)

const (
	// defaultFrames is the number of frames sent when the client leaves dt unset.
	defaultFrames = 100
	// maxFrames bounds horizon/dt.
	maxFrames = 100000
)

// StreamRequest is the first message a stream client sends: a simulator
// configuration plus the simulated time covered by each frame.
type StreamRequest struct {
	sim.Config
	Dt float64 `json:"dt"`
}

// Frame is one message written to a stream client.
type Frame struct {
	Index       int              `json:"frame"`
	Snapshot    sim.Snapshot     `json:"snapshot"`
	// Queues lists the waiting job IDs of each station, head first.
	Queues      [][]int64        `json:"queues"`
	Diagnostics []sim.Diagnostic `json:"diagnostics,omitempty"`
	Done        bool             `json:"done"`
}

// stream upgrades the connection, reads one StreamRequest and then writes a
// snapshot after every dt of simulated time, ceil(horizon/dt)+1 frames in
// total. The last frame has Done set and sits at the horizon. An invalid
// request gets a single ErrorResponse before the connection closes.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("[stream] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)
	var req StreamRequest
	if err := conn.ReadJSON(&req); err != nil {
		logrus.Debugf("[stream] read request: %v", err)
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid stream request: " + err.Error()})
		return
	}

	simulator, diags, err := s.newSimulator(req.Config)
	if err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}
	dt := req.Dt
	if dt <= 0 {
		dt = req.Horizon / defaultFrames
	}
	if req.Horizon/dt > maxFrames {
		_ = conn.WriteJSON(ErrorResponse{Error: fmt.Sprintf("dt %v gives more than %d frames", dt, maxFrames)})
		return
	}
	logrus.Infof("[stream] streaming %s run: horizon=%v dt=%v", req.Kind, req.Horizon, dt)

	// Frame 0 is the initial state, so a client sees the empty system first.
	frames := int(math.Ceil(req.Horizon / dt))
	frame := Frame{Index: 0, Snapshot: simulator.State(), Queues: simulator.QueuedJobs(), Diagnostics: diags}
	for {
		frame.Done = frame.Index == frames
		if err := conn.WriteJSON(frame); err != nil {
			logrus.Debugf("[stream] client gone at frame %d: %v", frame.Index, err)
			return
		}
		if frame.Done {
			break
		}
		frame.Index++
		frame.Diagnostics = nil
		target := float64(frame.Index) * dt
		if frame.Index == frames {
			target = req.Horizon
		}
		frame.Snapshot = simulator.AdvanceUntil(target)
		frame.Queues = simulator.QueuedJobs()
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "horizon reached")
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
}
