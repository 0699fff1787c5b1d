// enhancegame runs the enhancement crew against the existing static/game.html:
// progressive speed and a larger canvas.
package main

import (
	"context"
	"errors"
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
	fmt.Println("🎮 Starting Snake Game Enhancement Crew...")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Enhancements:")
	fmt.Println("  1. Progressive speed system (slow → fast)")
	fmt.Println("  2. Larger canvas (600x600)")
	fmt.Println("  3. Maintain all realistic graphics")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	cfg, err := crews.Load(crews.Enhance)
	if err != nil {
		exit(err)
	}

	store, err := artifact.NewFileStore(staticDir)
	if err != nil {
		exit(err)
	}

	// The developer task receives the current game as template input. A
	// missing file is not fatal; the definition falls back to building anew.
	current, err := store.Get("game.html")
	if err != nil && !errors.Is(err, artifact.ErrNotFound) {
		exit(err)
	}

	reg := prometheus.NewRegistry()
	mesh := crewmesh.New(func(o *crewmesh.Options) {
		o.Registerer = reg
		o.Logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "text", Output: os.Stderr})
		o.Store = store
		o.Out = os.Stdout
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := mesh.Kickoff(ctx, cfg, map[string]any{crews.CurrentGameInput: string(current)})
	writeMetrics(mesh)
	if err != nil {
		exit(err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🎉 Enhancement Complete!")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("Final Result:")
	fmt.Println(outcome.Result.Final())
	fmt.Println()
	for _, name := range outcome.Artifacts {
		fmt.Printf("✅ Game enhanced: %s/%s\n", staticDir, name)
		reportChecks(store, name)
	}
	fmt.Println("🔄 Restart 'go run ./cmd/gameserver' to see changes")
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
