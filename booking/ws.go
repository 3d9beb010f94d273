package booking

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"hostelhub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// RoomWS subscribes a client to live availability updates for one room.
// The portal's room grid keeps a socket open per visible room so a bed
// claimed elsewhere greys out without a refresh.
func RoomWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[roomID] = append(subscribers[roomID], conn)
	mu.Unlock()

	for {
		// Keeps the connection alive until the client disconnects.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[roomID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[roomID] = newList
	mu.Unlock()

	conn.Close()
}

func broadcast(roomID string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[roomID]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[roomID] = newList
}

// NotifyRoomUpdated feeds room change events from the hostel-events
// stream to websocket subscribers of that room. Signature matches
// mq.Handler so it can be registered on the event worker directly.
func NotifyRoomUpdated(ctx context.Context, ev models.Event) {
	if ev.Kind != "room-updated" || ev.EntityID == "" {
		return
	}
	payload, err := json.Marshal(map[string]any{"type": "room-updated", "roomId": ev.EntityID})
	if err != nil {
		log.Printf("marshal room update: %v", err)
		return
	}
	broadcast(ev.EntityID, payload)
}
