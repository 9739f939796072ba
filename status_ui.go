package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// statusUI holds the labels refreshed every frame.
type statusUI struct {
	date    *widget.Text
	state   *widget.Text
	patches *widget.Text
}

// NewStatusUI builds a panel in the top right corner showing the calendar,
// the animator state and every bound patch with its current frame, plus
// buttons for the day and reload actions.
func NewStatusUI(g *Game) (*ebitenui.UI, *statusUI) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	rowStart := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})

	label := func(s string) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(s, &face, white),
			widget.TextOpts.WidgetOpts(rowStart),
		)
	}

	s := &statusUI{
		date:    label(""),
		state:   label(""),
		patches: label(""),
	}

	nextDayBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Next day (N)", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(rowStart),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.nextDay()
		}),
	)
	reloadBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Reload (R)", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(rowStart),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.reload("manual")
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 16, Right: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/4, baseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(label("patchanim"))
	panel.AddChild(s.date)
	panel.AddChild(s.state)
	panel.AddChild(s.patches)
	panel.AddChild(nextDayBtn)
	panel.AddChild(reloadBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, s
}

// Refresh copies the current game state into the labels.
func (s *statusUI) Refresh(g *Game) {
	s.date.Label = g.save.Data().String()
	s.state.Label = fmt.Sprintf("%s, tick %d", g.scheduler.State(), g.scheduler.Tick())

	var b strings.Builder
	for _, p := range g.scheduler.Patches() {
		mark := ""
		if !p.Resolved() {
			mark = " (unresolved)"
		}
		fmt.Fprintf(&b, "%s  %d/%d%s\n", p.Name(), p.Frame()+1, p.Record.FrameCount, mark)
	}
	if b.Len() == 0 {
		b.WriteString("no animated patches\n")
	}
	s.patches.Label = strings.TrimSuffix(b.String(), "\n")
}
