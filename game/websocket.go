package game

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline = time.Second * 20
	readDeadline  = time.Minute
)

type GorillaWebSocketWrapper struct {
	socket *websocket.Conn
}

func NewGorillaWebSocketWrapper(conn *websocket.Conn) *GorillaWebSocketWrapper {
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	return &GorillaWebSocketWrapper{socket: conn}
}

func (wc *GorillaWebSocketWrapper) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *GorillaWebSocketWrapper) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *GorillaWebSocketWrapper) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *GorillaWebSocketWrapper) Close(errCode string) {
	wc.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	wc.socket.Close()
}
