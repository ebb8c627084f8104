package ui

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the optional system tray menu. It shows catalog counts and
// shortcuts into the gallery; all state changes arrive via UpdateCounts.
type Tray struct {
	galleryURL string
	logger     *slog.Logger

	imagesItem   *systray.MenuItem
	segmentsItem *systray.MenuItem

	mu sync.Mutex

	onRescan func()
	onQuit   func()
}

type TrayConfig struct {
	GalleryURL string
	Logger     *slog.Logger
	OnRescan   func()
	OnQuit     func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		galleryURL: cfg.GalleryURL,
		logger:     cfg.Logger,
		onRescan:   cfg.OnRescan,
		onQuit:     cfg.OnQuit,
	}
}

// Run starts the tray event loop and blocks until the tray quits.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Framepick")
	systray.SetTooltip("Framepick Agent")

	imagesItem := systray.AddMenuItem("Images: 0", "Images in the catalog")
	imagesItem.Disable()

	segmentsItem := systray.AddMenuItem("Segments: 0", "Transcript segments")
	segmentsItem.Disable()

	t.mu.Lock()
	t.imagesItem = imagesItem
	t.segmentsItem = segmentsItem
	t.mu.Unlock()

	systray.AddSeparator()

	rescanItem := systray.AddMenuItem("Rescan Now", "Rescan the image directory")
	openItem := systray.AddMenuItem("Open Gallery", "Open the gallery in a browser")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Framepick Agent")

	go func() {
		for {
			select {
			case <-rescanItem.ClickedCh:
				t.handleRescan()
			case <-openItem.ClickedCh:
				t.handleOpenGallery()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready", "gallery_url", t.galleryURL)
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleRescan() {
	t.logger.Info("rescan requested from tray")
	if t.onRescan != nil {
		t.onRescan()
	}
}

func (t *Tray) handleOpenGallery() {
	if err := openBrowser(t.galleryURL); err != nil {
		t.logger.Error("failed to open gallery", "error", err)
	}
}

// UpdateCounts refreshes the disabled count items. Safe to call before the
// menu exists; those calls are dropped.
func (t *Tray) UpdateCounts(images, segments int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.imagesItem == nil {
		return
	}
	t.imagesItem.SetTitle(fmt.Sprintf("Images: %d", images))
	t.segmentsItem.SetTitle(fmt.Sprintf("Segments: %d", segments))
}

func (t *Tray) Quit() {
	systray.Quit()
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
