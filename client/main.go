package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Interactive test client for the WebSocket binding. Plain lines go out as
// chat; slash commands drive the game:
//
//	/start       start the game (room creator only)
//	/word apple  select the secret word (current drawer only)
//	/clear       clear the canvas
//
// Everything the server sends is printed as received.

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func send(c *websocket.Conn, msgType string, data interface{}) error {
	raw, err := json.Marshal(envelope{Type: msgType, Data: data})
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, raw)
}

func main() {
	addr := flag.String("addr", "localhost:3001", "server address")
	roomKey := flag.String("room", "default", "room to join")
	name := flag.String("name", "", "display name")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/ws",
		RawQuery: url.Values{"room": {*roomKey}, "userName": {*name}}.Encode(),
	}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", message)
		}
	}()

	// Stdin loop
	lines := make(chan string)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(text)
		}
	}()

	log.Println("Connected. Type to chat, /start, /word <w>, /clear to play.")

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			if text == "" {
				continue
			}

			var err error
			switch {
			case text == "/start":
				err = send(c, "gameStart", nil)
			case text == "/clear":
				err = send(c, "clear", nil)
			case strings.HasPrefix(text, "/word "):
				err = send(c, "wordSelect", map[string]string{"word": strings.TrimPrefix(text, "/word ")})
			default:
				err = send(c, "chatMessage", map[string]string{"text": text})
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
