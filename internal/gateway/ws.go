package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// ActionHandler is the engine seen from the transport. Every inbound
// message resolves to exactly one call; a returned error is reported to
// the sender only.
type ActionHandler interface {
	CreateRoom(playerID, hostName string, playerCount int) (string, error)
	JoinRoom(playerID, code, playerName string) error
	StartGame(playerID, code string) error
	ProposeTeam(playerID, code string, teamIDs []string) error
	SubmitVote(playerID, code string, vote bool) error
	SubmitQuestMove(playerID, code string, move bool) error
	Assassinate(playerID, code, targetID string) error
	Disconnect(playerID, code string)
}

// Server upgrades connections and pumps messages between each client and
// the engine
type Server struct {
	handler        ActionHandler
	bus            *Bus
	log            *zap.Logger
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

// NewServer creates a websocket server
func NewServer(handler ActionHandler, bus *Bus, log *zap.Logger, maxMessageSize int64) *Server {
	return &Server{
		handler:        handler,
		bus:            bus,
		log:            log,
		maxMessageSize: maxMessageSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// inbound is the wire envelope received from clients
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type createRoomPayload struct {
	HostName    string `json:"hostName"`
	PlayerCount int    `json:"playerCount"`
}

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type proposeTeamPayload struct {
	RoomID            string   `json:"roomId"`
	SelectedPlayerIDs []string `json:"selectedPlayerIds"`
}

type votePayload struct {
	RoomID string `json:"roomId"`
	Vote   bool   `json:"vote"`
}

type questMovePayload struct {
	RoomID string `json:"roomId"`
	Move   bool   `json:"move"`
}

type assassinatePayload struct {
	RoomID   string `json:"roomId"`
	TargetID string `json:"targetId"`
}

// client is one connected player
type client struct {
	playerID string
	roomCode string // set after create_room or join_room succeeds
	conn     *websocket.Conn
	events   chan Event
}

// HandleWS upgrades the request and runs the connection until it closes.
// The connection is issued a fresh player ID; identity lives for the
// session only.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		playerID: uuid.NewString(),
		conn:     conn,
	}
	c.events = s.bus.Register(c.playerID)

	s.log.Info("player connected", zap.String("player", c.playerID), zap.String("remote", r.RemoteAddr))

	go c.writePump()
	s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.bus.Unregister(c.playerID)
		s.handler.Disconnect(c.playerID, c.roomCode)
		c.conn.Close()
		s.log.Info("player disconnected", zap.String("player", c.playerID))
	}()

	c.conn.SetReadLimit(s.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.String("player", c.playerID), zap.Error(err))
			}
			return
		}

		if err := s.dispatch(c, msg); err != nil {
			s.bus.Unicast(c.playerID, ErrorEvent(err.Error()))
		}
	}
}

func (s *Server) dispatch(c *client, msg inbound) error {
	switch msg.Type {
	case "create_room":
		var p createRoomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		code, err := s.handler.CreateRoom(c.playerID, p.HostName, p.PlayerCount)
		if err != nil {
			return err
		}
		c.roomCode = code
		return nil

	case "join_room":
		var p joinRoomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		if err := s.handler.JoinRoom(c.playerID, p.RoomID, p.PlayerName); err != nil {
			return err
		}
		c.roomCode = p.RoomID
		return nil

	case "start_game":
		var p roomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return s.handler.StartGame(c.playerID, p.RoomID)

	case "propose_team":
		var p proposeTeamPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return s.handler.ProposeTeam(c.playerID, p.RoomID, p.SelectedPlayerIDs)

	case "submit_vote":
		var p votePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return s.handler.SubmitVote(c.playerID, p.RoomID, p.Vote)

	case "submit_quest_move":
		var p questMovePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return s.handler.SubmitQuestMove(c.playerID, p.RoomID, p.Move)

	case "assassinate":
		var p assassinatePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return s.handler.Assassinate(c.playerID, p.RoomID, p.TargetID)

	default:
		s.log.Debug("unknown action", zap.String("type", msg.Type), zap.String("player", c.playerID))
		return nil
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case e, ok := <-c.events:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
