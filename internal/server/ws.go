package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Stream은 상태가 바뀔 때마다 화면 트리를 웹소켓으로 보냅니다
// GET /ws
func (s *Server) Stream(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("웹소켓 업그레이드 실패")
		return nil
	}
	defer conn.Close()

	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	changes, cancel := s.engine.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go readPump(conn, closed)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := s.push(conn); err != nil {
		return nil
	}

	for {
		select {
		case <-closed:
			return nil
		case <-changes:
			if err := s.push(conn); err != nil {
				s.logger.Debug().Err(err).Msg("화면 전송 실패")
				return nil
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) push(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(s.engine.View())
}

// readPump는 클라이언트 메시지를 버리고 연결이 끊기면 closed 를 닫습니다
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
