// Package app wires the scene to its surrounding panels: the header logo and
// footer music button open the portal, the player card and the logo close
// it, and a cube click picks the song.
package app

import (
	"time"

	"fortio.org/log"
	"github.com/samber/lo"
	"github.com/taigrr/cubeportal/pkg/config"
	"github.com/taigrr/cubeportal/pkg/gesture"
	"github.com/taigrr/cubeportal/pkg/lifecycle"
	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/panel"
	"github.com/taigrr/cubeportal/pkg/picking"
	"github.com/taigrr/cubeportal/pkg/player"
	"github.com/taigrr/cubeportal/pkg/render"
	"github.com/taigrr/cubeportal/pkg/universe"
)

// View adapts a render camera and framebuffer size to universe.View.
type View struct {
	Camera        *render.Camera
	Width, Height int
}

// ViewProjectionMatrix returns the camera's view-projection transform.
func (v *View) ViewProjectionMatrix() math3d.Mat4 { return v.Camera.ViewProjectionMatrix() }

// ViewerPosition returns the camera position.
func (v *View) ViewerPosition() math3d.Vec3 { return v.Camera.Position }

// Viewport returns the framebuffer size in pixels.
func (v *View) Viewport() picking.Viewport {
	return picking.Viewport{Width: float64(v.Width), Height: float64(v.Height)}
}

// Songs converts configured songs to player songs.
func Songs(cfg config.Config) []player.Song {
	return lo.Map(cfg.Songs, func(s config.Song, _ int) player.Song {
		return player.Song{Title: s.Title, Artist: s.Artist, Frequency: s.Frequency, File: s.File}
	})
}

// App holds the scene and the panels around it.
type App struct {
	Universe *universe.Universe
	Header   *panel.Header
	Footer   *panel.Footer
	Player   *player.Player

	ShowStats bool

	openersArmed   bool
	logoCloseArmed bool
	closing        bool // a close was requested since the last open
}

// New builds the app. The cube faces are labelled with the song titles.
func New(view universe.View, controls universe.Controls, cfg config.Config, mesh *models.Mesh, out player.Output) *App {
	songs := Songs(cfg)
	labels := lo.Map(songs, func(s player.Song, _ int) string { return s.Title })
	u := universe.New(view, controls, cfg, mesh, labels)
	if n := u.Cube().FaceCount(); n != len(songs) {
		log.Warnf("Model has %d faces but %d songs are configured", n, len(songs))
	}
	return &App{
		Universe: u,
		Header:   panel.NewHeader(cfg.PanelDuration()),
		Footer:   panel.NewFooter(cfg.PanelDuration()),
		Player:   player.New(songs, out, cfg.PanelDuration()),
	}
}

// Start reveals the scene and arms the portal openers.
func (a *App) Start() {
	a.Universe.SceneReady()
	a.openersArmed = true
}

// Update advances the scene and every panel by dt.
func (a *App) Update(dt time.Duration) {
	a.Universe.Animate(dt)
	a.Header.Update(dt)
	a.Footer.Update(dt)
	a.Player.Panel().Update(dt)
}

// OpenersArmed reports whether the logo and music button open the portal.
func (a *App) OpenersArmed() bool { return a.openersArmed }

// LogoCloses reports whether a logo click closes the portal.
func (a *App) LogoCloses() bool { return a.logoCloseArmed }

// OnMouseDown forwards a pointer press to the scene.
func (a *App) OnMouseDown(ev gesture.PointerEvent) error {
	return a.Universe.OnMouseDown(ev)
}

// OnMouseMove forwards pointer motion to the scene.
func (a *App) OnMouseMove(ev gesture.PointerEvent) error {
	return a.Universe.OnMouseMove(ev)
}

// OnMouseUp finishes a gesture. A click on a face while the cube is present
// selects that face's song and opens the portal. Clicks are ignored while
// the portal openers are disarmed.
func (a *App) OnMouseUp(ev gesture.PointerEvent) error {
	face, ok, err := a.Universe.OnMouseUp(ev)
	if err != nil {
		return err
	}
	if !ok || !a.openersArmed || a.Universe.Cube().Stage() != lifecycle.Present {
		return nil
	}
	if err := a.Player.SelectSong(face); err != nil {
		log.Errf("Select song for face %d: %v", face, err)
		return nil
	}
	a.open()
	return nil
}

// ClickLogo handles the header logo: it closes an open portal once the
// portal is ready, otherwise it opens one when openers are armed.
func (a *App) ClickLogo() {
	switch {
	case a.logoCloseArmed:
		a.close()
	case a.openersArmed:
		a.open()
	}
}

// ClickMusic handles the footer music button.
func (a *App) ClickMusic() {
	if a.openersArmed {
		a.open()
	}
}

// ClickPlayerClose handles the player card's close button.
func (a *App) ClickPlayerClose() {
	a.close()
}

// ToggleStats flips the stats overlay.
func (a *App) ToggleStats() {
	a.ShowStats = !a.ShowStats
}

func (a *App) open() {
	if !a.openersArmed {
		return
	}
	a.openersArmed = false
	a.closing = false
	accepted := a.Universe.ShowPortal(func() {
		if a.closing {
			return
		}
		a.logoCloseArmed = true
		a.Player.Show()
	})
	if !accepted {
		a.openersArmed = true
		return
	}
	a.Header.MoveUp()
	a.Footer.Hide()
}

func (a *App) close() {
	a.closing = true
	a.logoCloseArmed = false
	a.Player.Hide()
	a.Player.Pause()
	a.Universe.HidePortal(func() {
		a.Header.MoveDown(func() { a.openersArmed = true })
		a.Footer.Show()
	})
}
