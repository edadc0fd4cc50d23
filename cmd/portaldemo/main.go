package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/solarlune/portal3d"
	"github.com/solarlune/portal3d/colors"
	"github.com/solarlune/portal3d/ebitengpu"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var errQuit = errors.New("quit")

// Positions of the two portals; each shows the scene as seen from the other.
var portalPositions = [2]portal3d.Vector3{
	{X: 0, Y: 1.5, Z: 5},
	{X: 10, Y: 1.5, Z: -5},
}

type Game struct {
	cfg    Config
	device *ebitengpu.Device

	camera   *portal3d.Camera
	light    portal3d.DirectionalLight
	standard portal3d.StandardEffect

	registry      *portal3d.PortalRegistry
	portals       [2]portal3d.PortalEffect
	portalObjects [2]portal3d.RenderObject

	floor   portal3d.RenderObject
	cube    portal3d.RenderObject
	pillar  portal3d.RenderObject
	model   *portal3d.RenderGroup
	frame   portal3d.Frame
	orbit   *gween.Sequence
	watcher *shaderWatcher

	DrawDebugText bool
}

func NewGame(cfg Config) (*Game, error) {

	g := &Game{
		cfg:           cfg,
		DrawDebugText: true,
	}

	if err := g.Init(); err != nil {
		g.Terminate()
		return nil, err
	}

	return g, nil

}

// checkerImage is the floor's texture.
func checkerImage(size, squares int, a, b color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	square := size / squares
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/square+y/square)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func (g *Game) Init() error {

	options := ebitengpu.Options{Width: g.cfg.Window.Width, Height: g.cfg.Window.Height}
	if g.cfg.ShaderDir != "" {
		options.ShaderFS = os.DirFS(g.cfg.ShaderDir)
	}

	g.device = ebitengpu.NewDevice(options)

	g.camera = portal3d.NewCamera(float32(g.cfg.Window.Width), float32(g.cfg.Window.Height))
	g.camera.SetFarPlane(100)

	g.light = portal3d.NewDirectionalLight(portal3d.Vector3{X: 0.4, Y: -1, Z: 0.3})

	if err := g.standard.Initialize(g.device, g.cfg.StandardShader); err != nil {
		return err
	}
	g.standard.SetCamera(g.camera)
	g.standard.SetDirectionalLight(&g.light)

	// Scene

	checker, err := g.device.Textures().AddImage("checker", checkerImage(256, 8, color.RGBA{200, 200, 200, 255}, color.RGBA{90, 100, 110, 255}))
	if err != nil {
		return err
	}

	g.floor = portal3d.NewRenderObject()
	if err := g.floor.Initialize(g.device, portal3d.NewPlane(30, 30)); err != nil {
		return err
	}
	g.floor.DiffuseMapID = checker

	g.cube = portal3d.NewRenderObject()
	if err := g.cube.Initialize(g.device, portal3d.NewCube(1)); err != nil {
		return err
	}
	g.cube.Transform = g.cube.Transform.Move(0, 0.5, 0)
	g.cube.Material.Diffuse = colors.CornflowerBlue()

	// The pillar stands behind the second portal, so it's only seen through the first.
	g.pillar = portal3d.NewRenderObject()
	if err := g.pillar.Initialize(g.device, portal3d.NewCube(1)); err != nil {
		return err
	}
	g.pillar.Transform.Position = portal3d.Vector3{X: 10, Y: 1.5, Z: 0}
	g.pillar.Transform.Scale = portal3d.Vector3{X: 1, Y: 3, Z: 1}
	g.pillar.Material.Diffuse = colors.Orange()

	g.frame = portal3d.Frame{
		Standard: &g.standard,
		Settings: g.cfg.Settings,
		Objects:  []*portal3d.RenderObject{&g.floor, &g.cube, &g.pillar},
	}

	if g.cfg.Model != "" {
		g.model = &portal3d.RenderGroup{}
		if err := g.model.InitializeFromFile(g.device, g.cfg.Model, g.device.Textures()); err != nil {
			return err
		}
		g.frame.Groups = append(g.frame.Groups, g.model)
	}

	// Portals

	g.registry = portal3d.NewPortalRegistry()
	g.frame.Registry = g.registry

	portalMesh := portal3d.NewQuadPX(2, 3)

	ids := [2]portal3d.PortalID{}

	for i := range g.portals {

		portal := &g.portals[i]

		if err := portal.Initialize(g.device, portalMesh, g.cfg.Portal); err != nil {
			return err
		}

		obj := &g.portalObjects[i]
		*obj = portal3d.NewRenderObject()
		if err := obj.Initialize(g.device, portalMesh); err != nil {
			return err
		}
		obj.Transform.Position = portalPositions[i]

		portal.SetPortalObject(obj)
		portal.SetGameCamera(g.camera)
		portal.SetStandardEffect(&g.standard)

		ids[i] = g.registry.Add(portal)

	}

	g.registry.Link(ids[0], ids[1])

	// Camera sweep

	sweep := g.cfg.Orbit.Sweep
	g.orbit = gween.NewSequence(gween.New(-sweep, sweep, g.cfg.Orbit.Period, ease.InOutSine))
	g.orbit.SetYoyo(true)
	g.orbit.SetLoop(-1)

	// Shader hot reload

	if g.cfg.ShaderDir != "" {
		g.watcher, err = watchShaders(g.cfg.ShaderDir, g.cfg.StandardShader, g.cfg.Portal.ShaderPath)
		if err != nil {
			portal3d.Logger().Warn("shader hot reload disabled", "err", err)
		}
	}

	g.placeCamera(-sweep)

	return nil

}

// placeCamera puts the camera on the orbit at the given angle, looking at the first portal.
func (g *Game) placeCamera(angle float32) {
	target := portalPositions[0]
	orbit := g.cfg.Orbit
	g.camera.SetPosition(portal3d.Vector3{
		X: target.X + math32.Sin(angle)*orbit.Radius,
		Y: orbit.Height,
		Z: target.Z - math32.Cos(angle)*orbit.Radius,
	})
	g.camera.LookAt(target)
}

func (g *Game) reloadShaders() {

	if g.watcher == nil {
		return
	}

	for _, name := range g.watcher.Changed() {

		var err error

		switch name {
		case filepath.Clean(filepath.Join(g.cfg.ShaderDir, g.cfg.StandardShader)):
			err = g.standard.ReloadShader()
		case filepath.Clean(filepath.Join(g.cfg.ShaderDir, g.cfg.Portal.ShaderPath)):
			for i := range g.portals {
				if err = g.portals[i].ReloadShader(); err != nil {
					break
				}
			}
		}

		// A broken shader keeps the previous one running, so a typo mid-edit isn't fatal.
		if err != nil {
			portal3d.Logger().Error("shader reload failed", "file", name, "err", err)
		}

	}

}

func (g *Game) Update() error {

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.DrawDebugText = !g.DrawDebugText
	}

	// Map toggles
	settings := &g.frame.Settings
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		settings.UseDiffuseMap = !settings.UseDiffuseMap
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		settings.UseNormalMap = !settings.UseNormalMap
	}
	if inpututil.IsKeyJustPressed(ebiten.Key3) {
		settings.UseSpecMap = !settings.UseSpecMap
	}
	if inpututil.IsKeyJustPressed(ebiten.Key4) {
		settings.UseBumpMap = !settings.UseBumpMap
	}

	angle, _, _ := g.orbit.Update(1 / float32(ebiten.TPS()))
	g.placeCamera(angle)

	g.cube.Transform = g.cube.Transform.Rotate(portal3d.WorldUp, 0.02)

	g.reloadShaders()

	return nil

}

func (g *Game) Draw(screen *ebiten.Image) {

	screen.Fill(color.RGBA{60, 70, 80, 255})

	g.device.SetScreen(screen)
	g.device.ResetStats()

	g.frame.Render()

	if g.DrawDebugText {
		g.device.DebugDrawPortals(screen, g.registry)
		s := g.frame.Settings
		txt := fmt.Sprintf("F1 to toggle this text\n1: Diffuse map (%t)\n2: Normal map (%t)\n3: Spec map (%t)\n4: Bump map (%t)\nF4: Toggle fullscreen\nESC: Quit",
			s.UseDiffuseMap, s.UseNormalMap, s.UseSpecMap, s.UseBumpMap)
		g.device.DebugDrawText(screen, txt, 0, 70, 1, colors.White())
	}

}

func (g *Game) Layout(w, h int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Terminate releases everything Init created. It's safe to call after a failed Init.
func (g *Game) Terminate() {
	if g.watcher != nil {
		g.watcher.Close()
	}
	for i := range g.portals {
		g.portals[i].Terminate()
		g.portalObjects[i].Terminate()
	}
	if g.model != nil {
		g.model.Terminate()
	}
	g.pillar.Terminate()
	g.cube.Terminate()
	g.floor.Terminate()
	g.standard.Terminate()
}

func main() {

	configPath := flag.String("config", "portaldemo.toml", "path to the demo's TOML configuration")
	verbose := flag.Bool("v", false, "log resource lifecycle at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	portal3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	game, err := NewGame(cfg)
	if err != nil {
		slog.Error("starting demo", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(game)

	game.Terminate()

	if err != nil && !errors.Is(err, errQuit) {
		slog.Error("running demo", "err", err)
		os.Exit(1)
	}

}
