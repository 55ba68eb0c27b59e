package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/domain"
)

const (
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

type WSHandler struct {
	service      *app.QuizService
	upgrader     websocket.Upgrader
	log          *zap.Logger
	pingInterval time.Duration
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:          logger,
		pingInterval: defaultPingInterval,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type welcomePayload struct {
	PlayerID string      `json:"playerId"`
	Modes    []modeView  `json:"modes"`
	Ranges   []rangeView `json:"ranges"`
}

type missedPayload struct {
	Words []domain.WordEntry `json:"words"`
}

// ServeWS upgrades the request and drives one player's quiz over the connection.
// The player id comes from ?playerId= and is generated when absent.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.log.With(zap.String("player_id", playerID))
	ctx := r.Context()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// single writer: replies and pings share the connection
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		broken := false
		fail := func(err error) {
			log.Debug("ws write error", zap.Error(err))
			broken = true
			// unblocks the read loop; remaining messages are drained and dropped
			_ = conn.Close()
		}
		for {
			select {
			case msg, ok := <-send:
				if !ok {
					return
				}
				if broken {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					fail(err)
				}
			case <-ticker.C:
				if broken {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					fail(err)
				}
			}
		}
	}()

	sendError := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
	}
	sendQuestion := func() {
		q, err := h.service.Question(ctx, playerID)
		if err != nil {
			sendError(err)
			return
		}
		send <- outboundMessage[any]{Type: "question", Payload: q}
	}

	ranges, err := h.service.Ranges(ctx)
	if err != nil {
		log.Error("load ranges", zap.Error(err))
		sendError(err)
	} else {
		send <- outboundMessage[any]{Type: "ranges", Payload: welcomePayload{
			PlayerID: playerID,
			Modes:    modeViews(),
			Ranges:   rangeViews(ranges),
		}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var req app.StartRequest
			if err := json.Unmarshal(inbound.Payload, &req); err != nil {
				sendError(errBadPayload)
				continue
			}
			round, err := h.service.Start(ctx, playerID, req)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "round", Payload: round}
			sendQuestion()
		case "question":
			sendQuestion()
		case "answer":
			var sub app.AnswerSubmission
			if err := json.Unmarshal(inbound.Payload, &sub); err != nil {
				sendError(errBadPayload)
				continue
			}
			res, err := h.service.Answer(ctx, playerID, sub)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: res}
			if !res.Completed {
				sendQuestion()
				continue
			}
			summary, err := h.service.Summary(ctx, playerID)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "summary", Payload: summary}
		case "missed":
			words, err := h.service.Missed(ctx, playerID)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "missed", Payload: missedPayload{Words: words}}
		default:
			sendError(errUnsupported)
		}
	}

	close(send)
	<-writerDone
}
