package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
)

const writeWait = 10 * time.Second

// liveRequest is one snapshot of the form. Exactly one of Input or Config is
// set; Input goes through catalog resolution first.
type liveRequest struct {
	Seq    uint64          `json:"seq"`
	Input  *pattern.Input  `json:"input,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

type liveResponse struct {
	Seq    uint64      `json:"seq"`
	Result *evaluation `json:"result,omitempty"`
	Err    string      `json:"err,omitempty"`
}

// handleLive recomputes on every snapshot the client sends. Snapshots that
// arrive while one is being computed are collapsed to the newest.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("live upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	latest := make(chan liveRequest, 1)
	go func() {
		defer close(latest)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req liveRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				slog.Debug("discarding malformed live message", "err", err)
				continue
			}
			// only this goroutine sends, so drain-then-send cannot block
			select {
			case latest <- req:
			default:
				select {
				case <-latest:
				default:
				}
				latest <- req
			}
		}
	}()

	for req := range latest {
		resp := s.live(req)
		data, err := json.Marshal(resp)
		if err != nil {
			data, _ = json.Marshal(liveResponse{Seq: req.Seq, Err: encodeError(err).Error()})
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Server) live(req liveRequest) liveResponse {
	resp := liveResponse{Seq: req.Seq}
	var (
		cfg damage.Config
		err error
	)
	switch {
	case req.Input != nil:
		cfg, err = s.resolveInput(*req.Input)
	case len(req.Config) > 0:
		cfg, err = s.decodeConfig(req.Config)
	default:
		cfg = s.defaultConfig()
	}
	if err != nil {
		resp.Err = err.Error()
		return resp
	}
	ev := s.evaluate(cfg)
	resp.Result = &ev
	return resp
}
