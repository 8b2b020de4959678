// Command redkit-server runs a standalone RedKit instance, binding to
// 127.0.0.1 by default and shutting down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rkeyv/redkit"
)

func main() {
	port := flag.Int("port", 6379, "TCP port to listen on")
	flag.IntVar(port, "p", 6379, "TCP port to listen on (shorthand)")
	flag.Parse()

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	server := redkit.NewServer(addr)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("redkit-server listening on %s", addr)
	if err := server.Serve(); err != nil {
		log.Fatal(err)
	}
}
