// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/dsel/render"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192
	// Send pings to peer with this period.
	pingPeriod = 5 * time.Second
	// Pings the peer may leave unanswered before it is considered gone.
	pongWait = 4 * pingPeriod
)

var upgrader = websocket.Upgrader{}

// errClosed ends a client whose peer closed the connection.
var errClosed = errors.New("peer closed")

// ErrPongDeadlineExceeded ends a client whose peer stopped answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

// Message is the JSON frame pushed to browsers. Snapshot frames are sent
// once per instance on connect; update frames follow every change. An update
// frame with empty HTML reports an unmounted instance.
type Message struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	HTML string `json:"html"`
}

func message(kind string) func(render.Event) Message {
	return func(ev render.Event) Message {
		return Message{Type: kind, ID: ev.ID, HTML: ev.HTML}
	}
}

// client pushes runtime events to one websocket peer.
type client struct {
	ws  *websocket.Conn
	rt  *render.Runtime
	log *slog.Logger
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	cli := &client{ws: ws, rt: s.rt, log: s.log.With("remote", r.RemoteAddr)}
	cli.log.Debug("websocket connected")
	if err := cli.sync(r.Context()); err != nil {
		cli.log.Warn("websocket closed", "err", err)
		return
	}
	cli.log.Debug("websocket closed")
}

// sync publishes a snapshot followed by every update until the peer goes
// away or ctx is done. It returns nil on an orderly close.
func (cli *client) sync(ctx context.Context) error {
	defer cli.ws.Close()
	cli.ws.SetReadLimit(maxMessageSize)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return cli.readMessages()
	})
	group.Go(func() error {
		return cli.pingPong(groupCtx)
	})
	group.Go(func() error {
		return cli.publish(groupCtx)
	})
	group.Go(func() error {
		// Unblocks readMessages once any other routine has ended.
		<-groupCtx.Done()
		cli.close()
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, errClosed) {
		return err
	}
	return nil
}

// readMessages discards peer messages. Read errors are permanent.
func (cli *client) readMessages() error {
	for {
		if _, _, err := cli.ws.ReadMessage(); err != nil {
			if isError(err) {
				return fmt.Errorf("read failed: %w", err)
			}
			return errClosed
		}
	}
}

// pingPong requires readMessages to be running so the pong handler fires.
func (cli *client) pingPong(ctx context.Context) error {
	pong := make(chan struct{}, 1)
	cli.ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingPeriod)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			// WriteControl may run concurrently with the publishing writer.
			if err := cli.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					return fmt.Errorf("ping failed: %w", err)
				}
				return errClosed
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client) publish(ctx context.Context) error {
	events, cancel := cli.rt.Subscribe()
	defer cancel()

	snapshot, err := cli.rt.Snapshot()
	if err != nil {
		return err
	}
	for _, ev := range snapshot {
		if err := cli.write(message("snapshot")(ev)); err != nil {
			return err
		}
	}

	updates := channerics.Convert(ctx.Done(), events, message("update"))
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-updates:
			if !ok {
				return nil
			}
			if err := cli.write(m); err != nil {
				return err
			}
		}
	}
}

func (cli *client) write(m Message) error {
	if err := cli.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set deadline: %w", err)
	}
	if err := cli.ws.WriteJSON(m); err != nil {
		if isError(err) {
			return fmt.Errorf("publish failed: %w", err)
		}
		return errClosed
	}
	return nil
}

func (cli *client) close() {
	_ = cli.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	_ = cli.ws.Close()
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// clientScript replaces each instance container with pushed markup and
// removes containers whose markup is empty.
const clientScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (e) {
    var m = JSON.parse(e.data);
    var el = document.querySelector('[` + render.IDAttr + `="' + m.id + '"]');
    var tmp = document.createElement("div");
    tmp.innerHTML = m.html;
    var next = tmp.firstElementChild;
    if (!next) {
      if (el) el.remove();
      return;
    }
    if (el) el.replaceWith(next); else document.body.insertBefore(next, document.body.querySelector("script"));
  };
})();
</script>`
