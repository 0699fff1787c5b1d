// gameserver serves static/ on port 2025 and redirects / to the game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/crewmesh/logging"
	"github.com/hupe1980/crewmesh/server"
)

func main() {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		Component: "gameserver",
	})

	fmt.Println("🎮 Snake Game Server Starting...")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🌐 Server running at: http://localhost:2025")
	fmt.Println("🎯 Open your browser and visit: http://localhost:2025")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := server.New("static", func(o *server.Options) {
		o.Logger = logger
	})
	if err := server.Run(ctx, server.DefaultAddr, handler, 5*time.Second, logger); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server failed: %v\n", err)
		os.Exit(1)
	}
}
