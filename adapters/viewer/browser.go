package viewer

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"yieldplot/domain/core"
	"yieldplot/internal"
	"yieldplot/internal/chart"
	"yieldplot/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/figure.html
var templateFS embed.FS

// Config holds settings for the figure viewer
type Config struct {
	Addr            string
	OpenBrowser     bool
	GinMode         string
	ShutdownTimeout time.Duration
}

// DefaultConfig binds an ephemeral loopback port and opens the system browser
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:0",
		OpenBrowser:     true,
		GinMode:         gin.ReleaseMode,
		ShutdownTimeout: 5 * time.Second,
	}
}

var _ ports.ViewerPort = (*BrowserViewer)(nil)

// BrowserViewer shows each figure on a local web page and blocks until the
// page's Close button is pressed.
type BrowserViewer struct {
	config  Config
	logger  *internal.Logger
	page    *template.Template
	onReady func(url string)
	openURL func(url string) error
}

type pageData struct {
	Title    string
	ImageURL string
	Caption  template.HTML
}

// NewBrowserViewer creates a viewer. gin's mode is process-global and is set here.
func NewBrowserViewer(config Config, logger *internal.Logger) (*BrowserViewer, error) {
	page, err := template.ParseFS(templateFS, "templates/figure.html")
	if err != nil {
		return nil, fmt.Errorf("parse figure template: %w", err)
	}
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &BrowserViewer{
		config:  config,
		logger:  logger.Named("viewer"),
		page:    page,
		openURL: openInBrowser,
	}, nil
}

// OnReady registers a callback invoked with the page URL once the server is listening
func (v *BrowserViewer) OnReady(fn func(url string)) {
	v.onReady = fn
}

// Show serves fig and blocks until it is dismissed or ctx is done
func (v *BrowserViewer) Show(ctx context.Context, fig *chart.Figure) error {
	png, err := fig.PNG()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", v.config.Addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %v", core.ErrDisplayUnavailable, v.config.Addr, err)
	}

	dismissed := make(chan struct{})
	var once sync.Once
	dismiss := func() { once.Do(func() { close(dismissed) }) }

	srv := &http.Server{
		Handler:           v.Router(fig, png, renderMarkdown(fig.Summary()), dismiss),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", core.ErrDisplayUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var waitErr error
		select {
		case <-dismissed:
		case <-gctx.Done():
			waitErr = gctx.Err()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), v.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && waitErr == nil {
			waitErr = err
		}
		return waitErr
	})

	url := "http://" + ln.Addr().String() + "/"
	v.logger.Info("showing %q at %s (press Close on the page to continue)", fig.Title(), url)
	if v.onReady != nil {
		v.onReady(url)
	}
	if v.config.OpenBrowser {
		if err := v.openURL(url); err != nil {
			v.logger.Warn("could not open a browser, visit %s manually: %v", url, err)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	v.logger.Debug("figure %s dismissed", fig.ID)
	return nil
}

// Router builds the handler for one figure
func (v *BrowserViewer) Router(fig *chart.Figure, png []byte, caption template.HTML, dismiss func()) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(v.page)

	imageName := fig.ID.String() + ".png"

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "figure.html", pageData{
			Title:    fig.Title(),
			ImageURL: "/figures/" + imageName,
			Caption:  caption,
		})
	})
	router.GET("/figures/:file", func(c *gin.Context) {
		if c.Param("file") != imageName {
			c.String(http.StatusNotFound, "figure not found")
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})
	router.POST("/dismiss", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>Figure closed. You can close this tab.</p>"))
		dismiss()
	})

	return router
}

func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

func openInBrowser(url string) error {
	cmd := browserCommand(runtime.GOOS, url)
	if err := cmd.Start(); err != nil {
		return err
	}
	// the opener exits once it has handed the URL over
	go func() { _ = cmd.Wait() }()
	return nil
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
