package main

import (
	"fmt"
	"image"
	"image/color"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/hedgehog/assets"
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/game"
	"github.com/milk9111/hedgehog/prefabs"
	"github.com/milk9111/hedgehog/telemetry"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{R: 0x1d, G: 0x4a, B: 0xff, A: 0xff}
	groundColor     = color.RGBA{R: 0x1e, G: 0x2f, B: 0x46, A: 0xff}
	platformColor   = color.RGBA{R: 0xf7, G: 0x5a, B: 0x00, A: 0xff}
	platformStroke  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d}
	overlayColor    = color.RGBA{A: 0x80}
	white           = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black           = color.RGBA{A: 0xff}
)

const eventsShown = 12

// host adapts a game.Session to ebiten. It samples keys, draws the session
// snapshot and owns the overlay panels.
type host struct {
	session  *game.Session
	recorder *telemetry.Recorder
	watcher  *prefabs.Watcher
	logger   *log.Logger

	face       ebtext.Face
	panel      *flagPanel
	showPanel  bool
	showEvents bool

	images map[string]*ebiten.Image
}

func newHost(session *game.Session, store *flags.Store, recorder *telemetry.Recorder, watcher *prefabs.Watcher, logger *log.Logger) *host {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &host{
		session:  session,
		recorder: recorder,
		watcher:  watcher,
		logger:   logger,
		face:     face,
		panel:    newFlagPanel(store, session, face, logger),
		images:   make(map[string]*ebiten.Image),
	}
}

func (h *host) Update() error {
	h.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		h.showPanel = !h.showPanel
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		h.showEvents = !h.showEvents
	}
	if h.showPanel {
		h.panel.refresh(false)
		h.panel.ui.Update()
	}

	in := component.Input{
		Left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Jump:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Restart: ebiten.IsKeyPressed(ebiten.KeySpace),
	}
	if _, err := h.session.Tick(in); err != nil {
		return err
	}
	return nil
}

// drainWatcher applies prefab edits on the game goroutine.
func (h *host) drainWatcher() {
	if h.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-h.watcher.Events:
			if !ok {
				h.watcher = nil
				return
			}
			if name != "player.yaml" {
				continue
			}
			if err := h.session.ApplyPlayerTuning(); err != nil {
				h.logger.Warn("player prefab reload failed", "error", err)
				continue
			}
			h.logger.Info("player prefab reloaded")
		case err, ok := <-h.watcher.Errors:
			if !ok {
				h.watcher = nil
				return
			}
			h.logger.Warn("prefab watcher", "error", err)
		default:
			return
		}
	}
}

func (h *host) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	snap, ok := h.session.Snapshot()
	if !ok {
		return
	}

	for _, p := range snap.Platforms {
		x, y := float32(p.Bounds.L), float32(p.Bounds.B)
		w, hgt := float32(p.Bounds.R-p.Bounds.L), float32(p.Bounds.T-p.Bounds.B)
		if p.Ground {
			vector.FillRect(screen, x, y, w, hgt, groundColor, false)
			continue
		}
		vector.FillRect(screen, x, y, w, hgt, platformColor, false)
		vector.StrokeRect(screen, x, y, w, hgt, 1, platformStroke, false)
	}

	if img := h.image(assets.DataPointKey); img != nil {
		for _, p := range snap.Pickups {
			drawCentered(screen, img, p.X, p.Y, p.Scale, false)
		}
	}

	h.drawPlayer(screen, snap.Player)
	h.drawText(screen, snap.ScoreText, 16, 16, white)

	if snap.Completed && h.session.Phase() == game.PhaseLevelComplete {
		h.drawComplete(screen, snap.ElapsedSeconds)
	}
	if h.showEvents {
		h.drawEvents(screen)
	}
	if h.showPanel {
		h.panel.ui.Draw(screen)
	}
}

func (h *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.ScreenWidth, common.ScreenHeight
}

func (h *host) drawPlayer(screen *ebiten.Image, p game.PlayerView) {
	sheet := h.image(assets.SheetKey(p.Skin, p.Sheet))
	if sheet == nil || p.FrameW <= 0 || p.FrameH <= 0 {
		return
	}
	cols := sheet.Bounds().Dx() / p.FrameW
	if cols <= 0 {
		return
	}
	col := p.Frame % cols
	frame := sheet.SubImage(image.Rect(col*p.FrameW, 0, (col+1)*p.FrameW, p.FrameH)).(*ebiten.Image)
	drawCentered(screen, frame, p.X, p.Y, 1, p.FacingLeft)
}

func (h *host) drawComplete(screen *ebiten.Image, elapsed int) {
	vector.FillRect(screen, 0, 0, common.ScreenWidth, common.ScreenHeight, overlayColor, false)

	const boxW, boxH = 300, 180
	x := float32(common.ScreenWidth-boxW) / 2
	y := float32(common.ScreenHeight-boxH) / 2
	vector.FillRect(screen, x, y, boxW, boxH, white, false)

	cx := float64(common.ScreenWidth) / 2
	h.drawTextCentered(screen, "nice.", cx, float64(y)+40, black)
	h.drawTextCentered(screen, fmt.Sprintf("%ds", elapsed), cx, float64(y)+85, black)
	h.drawTextCentered(screen, "press space to go again", cx, float64(y)+135, black)
}

func (h *host) drawEvents(screen *ebiten.Image) {
	events := h.recorder.Events()
	if len(events) > eventsShown {
		events = events[len(events)-eventsShown:]
	}
	vector.FillRect(screen, 8, 40, 380, float32(eventsShown*16+16), overlayColor, false)
	for i, evt := range events {
		h.drawText(screen, formatEvent(evt), 16, float64(48+i*16), white)
	}
}

func (h *host) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, h.face, op)
}

func (h *host) drawTextCentered(screen *ebiten.Image, s string, cx, y float64, clr color.Color) {
	w, _ := ebtext.Measure(s, h.face, 0)
	h.drawText(screen, s, cx-w/2, y, clr)
}

// image converts a preloaded asset to an ebiten image on first use.
func (h *host) image(key string) *ebiten.Image {
	if img, ok := h.images[key]; ok {
		return img
	}
	src, ok := h.session.Library().Image(key)
	if !ok {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	h.images[key] = img
	return img
}

func drawCentered(screen, img *ebiten.Image, x, y, scale float64, flip bool) {
	w, hgt := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	if flip {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	op.GeoM.Translate(-w/2, -hgt/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
}

func formatEvent(evt telemetry.GameplayEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", evt.Timestamp.Format("15:04:05"), evt.Name)
	for _, k := range slices.Sorted(maps.Keys(evt.Properties)) {
		fmt.Fprintf(&b, " %s=%v", k, evt.Properties[k])
	}
	return b.String()
}
