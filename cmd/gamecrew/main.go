// gamecrew runs the Designer -> Developer -> Tester crew that builds the Snake
// game and writes it to static/game.html.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/crewmesh"
	"github.com/hupe1980/crewmesh/artifact"
	"github.com/hupe1980/crewmesh/crews"
	"github.com/hupe1980/crewmesh/logging"
)

const staticDir = "static"

func main() {
	fmt.Println("🎮 Starting Snake Game Development Crew...")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("This crew will collaboratively build a Snake game:")
	fmt.Println("  1. Designer: Creates game specifications")
	fmt.Println("  2. Developer: Implements the game")
	fmt.Println("  3. Tester: Validates and provides feedback")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	// 1. Load the embedded definition (CREWMESH_* variables override the provider)
	cfg, err := crews.Load(crews.Build)
	if err != nil {
		exit(err)
	}

	// 2. Artifacts land in static/ where the game server picks them up
	store, err := artifact.NewFileStore(staticDir)
	if err != nil {
		exit(err)
	}

	reg := prometheus.NewRegistry()
	mesh := crewmesh.New(func(o *crewmesh.Options) {
		o.Registerer = reg
		o.Logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "text", Output: os.Stderr})
		o.Store = store
		o.Out = os.Stdout
	})

	// 3. Run until done or interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := mesh.Kickoff(ctx, cfg, nil)
	writeMetrics(mesh)
	if err != nil {
		exit(err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🎉 Development Complete!")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("Final Result:")
	fmt.Println(outcome.Result.Final())
	fmt.Println()
	for _, name := range outcome.Artifacts {
		fmt.Printf("✅ Game file created: %s/%s\n", staticDir, name)
		reportChecks(store, name)
	}
	fmt.Println("🚀 Run 'go run ./cmd/gameserver' to start the web server on port 2025")
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "❌ Crew failed: %v\n", err)
	os.Exit(1)
}

// reportChecks prints structural problems of a saved game without failing.
func reportChecks(store artifact.Store, name string) {
	data, err := store.Get(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  cannot re-read %s: %v\n", name, err)
		return
	}
	for _, v := range artifact.Check(data, artifact.GameRules) {
		fmt.Printf("⚠️  %s: %s\n", name, v)
	}
}

// writeMetrics dumps run metrics when CREWMESH_METRICS_FILE is set, for the
// node_exporter textfile collector or a plain look after the run.
func writeMetrics(mesh *crewmesh.CrewMesh) {
	path := os.Getenv(crewmesh.EnvMetricsFile)
	if path == "" {
		return
	}
	if err := mesh.WriteMetrics(path); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
	}
}
