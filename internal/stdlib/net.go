package stdlib

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

func netNatives() []native {
	return []native{
		{"ws_connect", 1, nativeWsConnect},
		{"ws_send", 2, nativeWsSend},
		{"ws_recv", 1, nativeWsRecv},
		{"ws_close", 1, nativeWsClose},
	}
}

var wsPool = struct {
	mu    sync.Mutex
	next  int64
	conns map[int64]*websocket.Conn
}{conns: make(map[int64]*websocket.Conn)}

func wsConn(v bytecode.Value) (*websocket.Conn, error) {
	if v.Kind != bytecode.IntValue {
		return nil, fmt.Errorf("websocket handle must be an int, got %s", v.String())
	}
	wsPool.mu.Lock()
	defer wsPool.mu.Unlock()
	conn, ok := wsPool.conns[v.Int]
	if !ok {
		return nil, fmt.Errorf("unknown websocket handle %d", v.Int)
	}
	return conn, nil
}

func nativeWsConnect(args []bytecode.Value) bytecode.Value {
	conn, _, err := websocket.DefaultDialer.Dial(args[0].String(), nil)
	if err != nil {
		return errTable(err)
	}
	wsPool.mu.Lock()
	defer wsPool.mu.Unlock()
	wsPool.next++
	wsPool.conns[wsPool.next] = conn
	return bytecode.Int(wsPool.next)
}

func nativeWsSend(args []bytecode.Value) bytecode.Value {
	conn, err := wsConn(args[0])
	if err != nil {
		return errTable(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(args[1].String())); err != nil {
		return errTable(err)
	}
	return bytecode.BoolVal(true)
}

func nativeWsRecv(args []bytecode.Value) bytecode.Value {
	conn, err := wsConn(args[0])
	if err != nil {
		return errTable(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return errTable(err)
	}
	return bytecode.Str(string(data))
}

func nativeWsClose(args []bytecode.Value) bytecode.Value {
	if args[0].Kind != bytecode.IntValue {
		return bytecode.BoolVal(false)
	}
	wsPool.mu.Lock()
	defer wsPool.mu.Unlock()
	conn, ok := wsPool.conns[args[0].Int]
	if !ok {
		return bytecode.BoolVal(false)
	}
	delete(wsPool.conns, args[0].Int)
	conn.Close()
	return bytecode.BoolVal(true)
}
