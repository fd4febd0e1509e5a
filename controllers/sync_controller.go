package controllers

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ryanlai666/Meat-Cut/services"
	"github.com/ryanlai666/Meat-Cut/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type SyncController struct {
	sync    *services.SyncService
	matcher *services.MatcherService
	hub     *services.SyncHub
}

func NewSyncController(sync *services.SyncService, matcher *services.MatcherService, hub *services.SyncHub) *SyncController {
	return &SyncController{sync: sync, matcher: matcher, hub: hub}
}

// Status serves the read-only drift report.
func (sc *SyncController) Status(c *gin.Context) {
	status, err := sc.sync.ComputeStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute sync status", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Reconcile recomputes the drift report, pushes it to connected admin
// clients and mails the operator when drift is present. The report
// itself is read-only; the side effects live here.
func (sc *SyncController) Reconcile(c *gin.Context) {
	status, err := sc.sync.ComputeStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute sync status", "detail": err.Error()})
		return
	}

	sc.hub.Broadcast(services.SyncEvent{Type: "sync_status", Payload: status})

	if !status.ImagesSynced {
		if to := os.Getenv("ALERT_EMAIL"); to != "" {
			go utils.SendDriftAlert(to, status.Warnings)
		}
	}
	c.JSON(http.StatusOK, status)
}

// Match runs one asset-matching pass over cuts lacking a remote image.
func (sc *SyncController) Match(c *gin.Context) {
	report, err := sc.matcher.MatchAssets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Matching failed", "detail": err.Error(), "report": report})
		return
	}

	if report.Matched > 0 {
		invalidateFacetsCache()
	}
	sc.hub.Broadcast(services.SyncEvent{Type: "asset_match", Payload: report})
	c.JSON(http.StatusOK, report)
}

// UploadImages accepts a multipart batch of image files, pushes them to
// the remote store through the bounded worker pool and reports per-item
// outcomes.
func (sc *SyncController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}

	images := make([]services.LocalImage, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + fh.Filename})
			return
		}
		images = append(images, services.LocalImage{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	report, err := sc.matcher.UploadImages(c.Request.Context(), images)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload batch failed", "detail": err.Error(), "report": report})
		return
	}

	sc.hub.Broadcast(services.SyncEvent{Type: "image_upload", Payload: report})
	c.JSON(http.StatusOK, report)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// EventsWS streams sync events to the admin UI over a websocket.
func (sc *SyncController) EventsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{Conn: conn}
	sc.hub.Register(cl)

	// ping to keep connections alive through some proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sc.hub.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error → unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			sc.hub.Unregister(cl)
			return
		}
	}
}
