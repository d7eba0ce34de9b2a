package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/observability"
	"github.com/covechat/cove-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the session core.
type WSHandler struct {
	registry   *core.Registry
	membership *core.Membership
	dispatcher *core.Dispatcher
	log        *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, membership *core.Membership, dispatcher *core.Dispatcher, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		registry:   registry,
		membership: membership,
		dispatcher: dispatcher,
		log:        logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	observability.WSConnOpened()

	// Teardown must release all state exactly once, even when disconnect
	// races a forced eviction of the same connection.
	defer func() {
		h.membership.Leave(client)
		h.registry.Terminate(client)
		observability.WSConnClosed()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop decodes inbound frames and applies them to the core. The
// connection's own read order sequences its state transitions.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		if err := h.handleInbound(ctx, client, inbound); err != nil {
			return err
		}
	}
}

func (h *WSHandler) handleInbound(ctx context.Context, client *core.Client, inbound proto.Inbound) error {
	switch inbound.Type {
	case proto.InboundTypeAuth:
		var data proto.AuthData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		h.authenticate(ctx, client, data.Token)

	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		if session, ok := h.registry.Lookup(client); ok && data.Room != "" {
			h.membership.JoinRoom(session, data.Room)
		}

	case proto.InboundTypeJoinDirect:
		var data proto.JoinDirectData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		// Unauthorized joins are a silent no-op.
		if session, ok := h.registry.Lookup(client); ok {
			h.membership.JoinDirect(session, data.Channel)
		}

	case proto.InboundTypeRoomMsg:
		var data proto.RoomMsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		h.dispatcher.SendRoomMessage(ctx, client, data.Room, data.Text)

	case proto.InboundTypeDirectMsg:
		var data proto.DirectMsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		h.dispatcher.SendDirectMessage(ctx, client, data.Channel, data.Text)

	default:
		h.log.Debug().Str("type", inbound.Type).Str("client_id", client.ID).Msg("unknown inbound type dropped")
	}
	return nil
}

func (h *WSHandler) authenticate(ctx context.Context, client *core.Client, token string) {
	session, err := h.registry.Authenticate(ctx, client, token)
	if err != nil {
		h.log.Debug().Err(err).Str("client_id", client.ID).Msg("ws authentication failed")
		select {
		case client.Events <- &core.Event{Kind: core.EventAuthFailed, Reason: authFailReason(err)}:
		default:
		}
		return
	}

	h.log.Info().Str("client_id", client.ID).Str("identity", session.IdentityID).Msg("ws authenticated")
	select {
	case client.Events <- &core.Event{Kind: core.EventAuthOK}:
	default:
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-client.Done():
			// Flush queued events (e.g. the banned notice) before closing.
			for {
				select {
				case event := <-client.Events:
					if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
