// Command ws_chat is a terminal chat client for manual testing against a
// running cove server. It authenticates with a session token, joins a room
// or a direct channel and relays stdin lines as messages.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/covechat/cove-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	token := flag.String("token", "", "session token from /api/login")
	room := flag.String("room", "", "room to join")
	direct := flag.String("direct", "", "direct channel to join (idA_idB)")
	flag.Parse()

	if *token == "" {
		return errors.New("-token is required")
	}
	if (*room == "") == (*direct == "") {
		return errors.New("exactly one of -room or -direct is required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		return wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload})
	}

	if err := send(proto.InboundTypeAuth, proto.AuthData{Token: *token}); err != nil {
		return err
	}
	if err := awaitAuth(ctx, conn); err != nil {
		return err
	}

	if *room != "" {
		if err := send(proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: *room}); err != nil {
			return err
		}
		fmt.Printf("Connected to %s, room %s\n", *addr, *room)
	} else {
		if err := send(proto.InboundTypeJoinDirect, proto.JoinDirectData{Channel: *direct}); err != nil {
			return err
		}
		fmt.Printf("Connected to %s, direct channel %s\n", *addr, *direct)
	}
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if *room != "" {
			err = send(proto.InboundTypeRoomMsg, proto.RoomMsgData{Room: *room, Text: text})
		} else {
			err = send(proto.InboundTypeDirectMsg, proto.DirectMsgData{Channel: *direct, Text: text})
		}
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return scanner.Err()
}

func awaitAuth(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		return fmt.Errorf("read auth reply: %w", err)
	}
	switch outbound.Event {
	case proto.EventAuthOK:
		return nil
	case proto.EventAuthFailed:
		return fmt.Errorf("authentication failed: %v", outbound.Data)
	default:
		return fmt.Errorf("unexpected reply %q before auth ack", outbound.Event)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Event {
		case proto.EventRoomMessage, proto.EventDirectMessage:
			var evt proto.EventMessage
			if err := reunmarshal(outbound.Data, &evt); err != nil {
				log.Printf("decode message event: %v", err)
				continue
			}
			where := evt.Room
			if where == "" {
				where = evt.Channel
			}
			fmt.Printf("[%s] %s: %s\n", where, evt.Author.DisplayName, evt.Text)
		case proto.EventRetracted:
			var evt proto.EventRetraction
			if err := reunmarshal(outbound.Data, &evt); err != nil {
				log.Printf("decode retraction event: %v", err)
				continue
			}
			fmt.Printf("[%s] message %d was removed by a moderator\n", evt.Room, evt.MessageID)
		case proto.EventSendFailed:
			fmt.Println("!! your last message could not be delivered")
		case proto.EventBanned:
			fmt.Println("!! your account was banned, disconnecting")
			return
		default:
			log.Printf("unhandled event %q", outbound.Event)
		}
	}
}

// reunmarshal converts the loosely decoded event payload into its typed form.
func reunmarshal(data any, target any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
