package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

const (
	outboxSize   = 64
	writeTimeout = 10 * time.Second
)

type WSHandler struct {
	service    *app.QuizService
	defaultSet string
	countdown  int
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

// WSOptions configure a WSHandler.
type WSOptions struct {
	DefaultSet string
	Countdown  int
	Logger     *slog.Logger
}

func NewWSHandler(service *app.QuizService, opts WSOptions) *WSHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service:    service,
		defaultSet: opts.DefaultSet,
		countdown:  opts.Countdown,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger,
	}
}

// wsSession is one connection playing one quiz at a time.
type wsSession struct {
	handler  *WSHandler
	playerID string
	setID    string
	out      *outbox
	current  *app.Controller
}

// ServeWS upgrades HTTP requests to websockets and plays one quiz per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}
	setID := r.URL.Query().Get("set")
	if setID == "" {
		setID = h.defaultSet
	}
	if setID == "" {
		http.Error(w, "missing set", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	out := newOutbox(outboxSize)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(conn, out)
	}()

	session := &wsSession{handler: h, playerID: playerID, setID: setID, out: out}
	log := h.log.With("player", playerID, "set", setID)

	if err := session.start(r.Context()); err != nil {
		out.push(newErrorMessage(err))
	} else {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			if err := session.dispatch(r.Context(), inbound); err != nil {
				if isPresented(err) {
					continue
				}
				log.Debug("ws command rejected", "type", inbound.Type, "error", err)
				out.push(newErrorMessage(err))
			}
		}
	}

	// Close the outbox first so a presenter blocked on a dead writer lets Release take the lock.
	out.close()
	h.service.Release(playerID, session.current)
	<-writerDone
	log.Info("ws session closed")
}

func (h *WSHandler) writeLoop(conn *websocket.Conn, out *outbox) {
	write := func(msg message) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Warn("ws write error", "error", err)
			_ = conn.Close()
			return false
		}
		return true
	}
	for {
		select {
		case msg := <-out.send:
			if !write(msg) {
				return
			}
		case <-out.done:
			// flush whatever was queued before shutdown
			for {
				select {
				case msg := <-out.send:
					if !write(msg) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *wsSession) start(ctx context.Context) error {
	presenter := newWSPresenter(s.out, s.handler.log)
	c, err := s.handler.service.Start(ctx, s.playerID, s.setID, presenter)
	if err != nil {
		return err
	}
	s.current = c
	presenter.activate(message{Type: "joined", Payload: joinedPayload{
		PlayerID:  s.playerID,
		Set:       s.setID,
		Total:     c.State().Total,
		Countdown: s.handler.countdown,
	}})
	return nil
}

func (s *wsSession) dispatch(ctx context.Context, in inboundMessage) error {
	switch in.Type {
	case "select":
		key, err := parseOption(in.Payload, true)
		if err != nil {
			return err
		}
		return s.current.Select(key)
	case "submit":
		key, err := parseOption(in.Payload, false)
		if err != nil {
			return err
		}
		if key == domain.OptionNone {
			return s.current.Submit()
		}
		return s.current.SubmitAnswer(key)
	case "previous":
		return s.current.GoToPrevious()
	case "restart":
		return s.start(ctx)
	default:
		return fmt.Errorf("unsupported message type %q", in.Type)
	}
}

// parseOption reads {"option": "optN"}. An absent option is OptionNone unless required.
func parseOption(raw json.RawMessage, required bool) (domain.OptionKey, error) {
	var payload optionPayload
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return domain.OptionNone, fmt.Errorf("invalid payload: %w", err)
		}
	}
	if payload.Option == "" {
		if required {
			return domain.OptionNone, &domain.UnknownOptionKeyError{Key: ""}
		}
		return domain.OptionNone, nil
	}
	return domain.ParseWireKey(payload.Option)
}

// isPresented reports errors the presenter already sent as a validation message.
func isPresented(err error) bool {
	return errors.Is(err, domain.ErrNoSelection) || errors.Is(err, domain.ErrNoPreviousQuestion)
}
