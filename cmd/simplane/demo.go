package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/wrenfield/simplane/collision"
	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/physics"
	"github.com/wrenfield/simplane/scene"
	"github.com/wrenfield/simplane/vmath"
)

// spinner rotates a polygon collider at a fixed rate per second
type spinner struct {
	engine.Base
	rate float64
	poly *collision.Polygon
}

func (sp *spinner) Update(dt float64) {
	if sp.poly != nil {
		sp.poly.Rotate(sp.rate * dt)
	}
}

// paddle sweeps its entity horizontally between two bounds. The body
// stays kinematic: it deflects whatever lands on it without ever
// integrating forces itself
type paddle struct {
	engine.Base
	minX, maxX float64
	speed      float64
}

func (p *paddle) Update(dt float64) {
	e := p.Entity()
	if e == nil {
		return
	}
	e.Position.X += p.speed * dt
	if e.Position.X < p.minX {
		e.Position.X = p.minX
		p.speed = -p.speed
	}
	if e.Position.X > p.maxX {
		e.Position.X = p.maxX
		p.speed = -p.speed
	}
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive collision demo in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parameter.Load(configPath)
			if err != nil {
				return err
			}
			// Terminal cells are coarse world units; stock gravity
			// would empty the viewport in under a second
			cfg.Physics.Gravity = 0.4
			return runDemo(cfg)
		},
	}
}

func runDemo(cfg parameter.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	width, height := screen.Size()

	ctx := engine.NewContext(cfg)
	sc, err := scene.New(ctx)
	if err != nil {
		return err
	}
	defer sc.Stop()
	sc.DrawColliders = true

	buildDemoScene(ctx, sc, float64(width), float64(height))

	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case nil:
				return
			}
		}
	}()

	const frameRate = 30
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	confirmed := ctx.Status.Ints.Get("collision.confirmed")

	for {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
			if err := sc.Update(1.0 / frameRate); err != nil {
				return err
			}

			screen.Clear()
			sc.Render(screen)
			drawText(screen, 0, 0, fmt.Sprintf("entities=%d collisions=%d  q to quit",
				len(sc.Entities()), confirmed.Load()))
			screen.Show()
		}
	}
}

// buildDemoScene fills the viewport: static walls, bouncing bodies of
// all three shapes and a slowly spinning polygon
func buildDemoScene(ctx *engine.Context, sc *scene.Scene, w, h float64) {
	addWall := func(x, y, ww, wh float64) {
		wall := engine.NewEntity(ctx, x, y)
		wallBody, _ := physics.NewBody(1000, 0, 0)
		wallBody.IsStatic = true
		_ = wall.AddComponent(collision.NewRect(ww, wh))
		_ = wall.AddComponent(wallBody)
		sc.Add(wall, "walls")
	}

	// Floor, ceiling, side walls framing the viewport
	addWall(w/2, h-1, w, 2)
	addWall(w/2, 1, w, 2)
	addWall(1, h/2, 2, h)
	addWall(w-1, h/2, 2, h)

	// Sweeping kinematic paddle above the floor
	pd := engine.NewEntity(ctx, w/2, h-5)
	paddleBody, _ := physics.NewBody(10, 0, 0)
	paddleBody.SetKinematic(true)
	_ = pd.AddComponent(collision.NewRect(12, 1))
	_ = pd.AddComponent(paddleBody)
	_ = pd.AddComponent(&paddle{minX: 8, maxX: w - 8, speed: 10})
	sc.Add(pd, scene.DefaultGroup)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 12; i++ {
		e := engine.NewEntity(ctx, 4+rng.Float64()*(w-8), 3+rng.Float64()*(h/2))
		body, _ := physics.NewBodyFromConfig(1+rng.Float64(), ctx.Config.Physics)
		body.Restitution = 0.8
		body.Velocity = vmath.V(rng.Float64()*2-1, rng.Float64()*2-1)

		var c engine.Component
		switch i % 3 {
		case 0:
			c = collision.NewRect(4, 2)
		case 1:
			c = collision.NewCircle(2)
		default:
			poly, _ := collision.NewPolygon([]vmath.Vec2{
				{X: 0, Y: -2}, {X: 3, Y: 1}, {X: -3, Y: 1},
			})
			sp := &spinner{rate: 1.5, poly: poly}
			c = poly
			_ = e.AddComponent(sp)
		}

		_ = e.AddComponent(c)
		_ = e.AddComponent(body)
		sc.Add(e, scene.DefaultGroup)
	}
}

func drawText(screen tcell.Screen, x, y int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
