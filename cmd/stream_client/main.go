package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("url", "ws://localhost:10000/api/v1/stores/me/stream", "store stream endpoint")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: stream_client [-url ws://host/api/v1/stores/me/stream] <ACCESS_TOKEN>")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+flag.Arg(0))
	fmt.Printf("Connecting to %s...\n", *addr)
	conn, resp, err := websocket.DefaultDialer.Dial(*addr, header)
	if err != nil {
		if resp != nil {
			log.Fatalf("Failed to connect: %v (status %d)", err, resp.StatusCode)
		}
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close()

	fmt.Println("Connected! Waiting for store updates...")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			fmt.Printf("%s\n", message)
		}
	}()

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nDisconnecting...")

		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("Write close:", err)
			return
		}

		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
