package main

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/wrenfield/simplane/collision"
	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/physics"
	"github.com/wrenfield/simplane/scene"
)

func newBenchCmd() *cobra.Command {
	var (
		frames     int
		entities   int
		seed       int64
		cpuProfile bool
		bruteForce bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a headless frame benchmark and print kernel metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parameter.Load(configPath)
			if err != nil {
				return err
			}
			if bruteForce {
				cfg.Collision.UseSpatialGrid = false
			}
			return runBench(cfg, frames, entities, seed, cpuProfile)
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 1000, "frames to simulate")
	cmd.Flags().IntVar(&entities, "entities", 500, "entities to spawn")
	cmd.Flags().Int64Var(&seed, "seed", 1, "placement seed")
	cmd.Flags().BoolVar(&cpuProfile, "cpuprofile", false, "write a CPU profile")
	cmd.Flags().BoolVar(&bruteForce, "brute-force", false, "disable the spatial grid broad phase")
	return cmd
}

func runBench(cfg parameter.Config, frames, entities int, seed int64, cpuProfile bool) error {
	if cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	ctx := engine.NewContext(cfg)
	sc, err := scene.New(ctx)
	if err != nil {
		return err
	}
	defer sc.Stop()

	const worldSize = 1000.0
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < entities; i++ {
		e := engine.NewEntity(ctx, rng.Float64()*worldSize, rng.Float64()*worldSize)
		body, _ := physics.NewBody(1, 0, 0)
		body.Velocity.X = rng.Float64()*20 - 10
		body.Velocity.Y = rng.Float64()*20 - 10

		if i%2 == 0 {
			_ = e.AddComponent(collision.NewRect(20, 20))
		} else {
			_ = e.AddComponent(collision.NewCircle(10))
		}
		_ = e.AddComponent(body)
		sc.Add(e, scene.DefaultGroup)
	}

	start := time.Now()
	for f := 0; f < frames; f++ {
		if err := sc.Update(1.0 / 60); err != nil {
			return err
		}
		// Keep the queue from looping on itself during long runs
		ctx.Events.Consume()
	}
	elapsed := time.Since(start)

	fmt.Printf("%d frames, %d entities in %v (%.1f fps)\n",
		frames, entities, elapsed, float64(frames)/elapsed.Seconds())

	ctx.Status.Ints.Range(func(key string, ptr *atomic.Int64) {
		fmt.Printf("  %-24s %d\n", key, ptr.Load())
	})
	return nil
}
