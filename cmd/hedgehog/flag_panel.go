package main

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/hedgehog/ecs/system"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/game"
)

// flagPanel lets the player override flag values locally. Every change is
// published on the session's bus.
type flagPanel struct {
	ui      *ebitenui.UI
	store   *flags.Store
	session *game.Session
	logger  *log.Logger

	doubleJump *widget.Button
	speedBoost *widget.Button
	skin       *widget.Button
	shown      flags.Config
}

func newFlagPanel(store *flags.Store, session *game.Session, face ebtext.Face, logger *log.Logger) *flagPanel {
	p := &flagPanel{store: store, session: session, logger: logger}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	row := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressed}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(row),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	p.doubleJump = button("", func() {
		p.override(flags.KeyDoubleJump, !p.store.Snapshot().DoubleJumpEnabled)
	})
	p.speedBoost = button("", func() {
		p.override(flags.KeySpeedBoost, !p.store.Snapshot().SpeedBoostEnabled)
	})
	p.skin = button("", func() {
		p.override(flags.KeySkin, string(nextSkin(p.store.Snapshot().Skin)))
	})
	reset := button("reset to remote", p.reset)

	title := widget.NewText(
		widget.TextOpts.Text("flags (F1)", &face, white),
		widget.TextOpts.WidgetOpts(row),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(p.doubleJump)
	panel.AddChild(p.speedBoost)
	panel.AddChild(p.skin)
	panel.AddChild(reset)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	p.ui = &ebitenui.UI{Container: root}

	p.refresh(true)
	return p
}

// refresh relabels the buttons when the effective flags changed.
func (p *flagPanel) refresh(force bool) {
	cfg := p.store.Snapshot()
	if !force && cfg == p.shown {
		return
	}
	p.shown = cfg
	setLabel(p.doubleJump, fmt.Sprintf("double jump: %s", onOff(cfg.DoubleJumpEnabled)))
	setLabel(p.speedBoost, fmt.Sprintf("speed boost: %s", onOff(cfg.SpeedBoostEnabled)))
	setLabel(p.skin, fmt.Sprintf("skin: %s", cfg.Skin))
}

func setLabel(btn *widget.Button, label string) {
	if text := btn.Text(); text != nil {
		text.Label = label
	}
}

func (p *flagPanel) override(key string, value any) {
	if err := p.store.Override(key, value); err != nil {
		p.logger.Warn("flag override rejected", "flag", key, "error", err)
		return
	}
	if _, err := p.session.Emit(system.EventFlagOverride, map[string]any{"flag": key, "value": value}); err != nil {
		p.logger.Debug("flag override not published", "error", err)
	}
	p.refresh(true)
}

func (p *flagPanel) reset() {
	p.store.ResetOverrides()
	if _, err := p.session.Emit(system.EventFlagsReset, nil); err != nil {
		p.logger.Debug("flag reset not published", "error", err)
	}
	p.refresh(true)
}

func nextSkin(s flags.Skin) flags.Skin {
	i := slices.Index(flags.Skins, s)
	return flags.Skins[(i+1)%len(flags.Skins)]
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
