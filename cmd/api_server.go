package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/geekboywoot/umjammer/internal"
	"github.com/geekboywoot/umjammer/internal/config"
	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/models/api"
	"github.com/geekboywoot/umjammer/internal/transform"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const maxUploadBytes = 16 << 20

func ApiServer(port int, debug bool, settings config.Server) {

	cache := internal.NewImageCache(settings.CacheTTL)
	sched, err := internal.NewSweeper(cache, settings.CacheSweep)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		internal.NewCacheCheck(cache, settings.CacheSweep),
	})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	registerImageRoutes(r.Group("/v1/lcdui"), cache)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d (cache ttl=%s, sweep=%s)...", port, settings.CacheTTL, settings.CacheSweep)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	err = sched.Shutdown()
	if err != nil {
		log.Fatalf("failed to shutdown scheduler: %v", err)
	}
}

type imageHandlers struct {
	cache *internal.ImageCache
}

func registerImageRoutes(g *gin.RouterGroup, cache *internal.ImageCache) {
	h := &imageHandlers{cache: cache}
	g.POST("/images", h.upload)
	g.GET("/images/:id", h.info)
	g.GET("/images/:id/png", h.png)
	g.GET("/images/:id/rgb", h.rgb)
}

func (h *imageHandlers) upload(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abort(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		abort(c, http.StatusBadRequest, err)
		return
	}

	id := internal.ContentID(body)
	img, ok := h.cache.Get(id)
	if !ok {
		img, err = lcdui.DecodeStream(bytes.NewReader(body))
		if err != nil {
			abort(c, statusFor(err), err)
			return
		}
		h.cache.Put(id, img)
	}

	c.JSON(http.StatusCreated, imageInfo(id, img))
}

func (h *imageHandlers) info(c *gin.Context) {
	id, img, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, imageInfo(id, img))
}

func (h *imageHandlers) png(c *gin.Context) {
	_, img, ok := h.lookup(c)
	if !ok {
		return
	}

	x, y, width, height, err := regionQuery(c, img)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	code, err := transform.ParseCode(c.Query("transform"))
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	out, err := lcdui.CreateFromRegion(img, x, y, width, height, code)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := out.Write(&buf); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *imageHandlers) rgb(c *gin.Context) {
	_, img, ok := h.lookup(c)
	if !ok {
		return
	}

	x, y, width, height, err := regionQuery(c, img)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	if err := img.CheckRegion(x, y, width, height); err != nil {
		abort(c, statusFor(err), err)
		return
	}

	width, height = max(width, 0), max(height, 0)
	pixels := make([]uint32, width*height)
	if err := img.ReadRegion(pixels, 0, width, x, y, width, height); err != nil {
		abort(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, api.RGBResponse{Width: width, Height: height, Pixels: pixels})
}

func (h *imageHandlers) lookup(c *gin.Context) (string, *lcdui.Image, bool) {
	id := c.Param("id")
	img, ok := h.cache.Get(id)
	if !ok {
		abort(c, http.StatusNotFound, fmt.Errorf("image %s not found", id))
		return "", nil, false
	}
	return id, img, true
}

// regionQuery reads x, y, w and h, defaulting to the whole image.
func regionQuery(c *gin.Context, img *lcdui.Image) (x, y, w, h int, err error) {
	vals := []struct {
		name string
		dst  *int
		def  int
	}{
		{"x", &x, 0},
		{"y", &y, 0},
		{"w", &w, img.Width()},
		{"h", &h, img.Height()},
	}
	for _, v := range vals {
		s := c.Query(v.name)
		if s == "" {
			*v.dst = v.def
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, 0, 0, imgerr.InvalidArgument("query parameter %s=%q is not an integer", v.name, s)
		}
		*v.dst = n
	}
	return x, y, w, h, nil
}

func imageInfo(id string, img *lcdui.Image) api.ImageInfo {
	return api.ImageInfo{ID: id, Width: img.Width(), Height: img.Height(), Mutable: img.IsMutable()}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, imgerr.ErrLoad), errors.Is(err, imgerr.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, imgerr.ErrInvalidArgument), errors.Is(err, imgerr.ErrRange):
		return http.StatusBadRequest
	case errors.Is(err, imgerr.ErrIllegalState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error()})
}
