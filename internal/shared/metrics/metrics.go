package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	resumeUpdateTotal       atomic.Uint64
	resumeUpdateFailedTotal atomic.Uint64
	imageUploadTotal        atomic.Uint64
	imageUploadFailedTotal  atomic.Uint64
	imageUploadTimeoutTotal atomic.Uint64

	resumeUpdateDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 5000, 15000})
)

// IncResumeUpdate increments the successful update counter.
func IncResumeUpdate() {
	resumeUpdateTotal.Add(1)
}

// IncResumeUpdateFailed increments the failed update counter.
func IncResumeUpdateFailed() {
	resumeUpdateFailedTotal.Add(1)
}

// IncImageUpload increments the image upload counter.
func IncImageUpload() {
	imageUploadTotal.Add(1)
}

// IncImageUploadFailed increments the failed image upload counter.
func IncImageUploadFailed() {
	imageUploadFailedTotal.Add(1)
}

// IncImageUploadTimeout increments the timed-out image upload counter.
func IncImageUploadTimeout() {
	imageUploadTimeoutTotal.Add(1)
}

// ObserveResumeUpdateDurationMs records an update duration in milliseconds.
func ObserveResumeUpdateDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	resumeUpdateDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_update_total", "Total resume updates persisted", resumeUpdateTotal.Load())
	writeCounter(&buf, "resume_update_failed_total", "Total resume updates failed", resumeUpdateFailedTotal.Load())
	writeCounter(&buf, "resume_image_upload_total", "Total resume image uploads", imageUploadTotal.Load())
	writeCounter(&buf, "resume_image_upload_failed_total", "Total resume image uploads failed", imageUploadFailedTotal.Load())
	writeCounter(&buf, "resume_image_upload_timeout_total", "Total resume image uploads timed out", imageUploadTimeoutTotal.Load())
	writeHistogram(&buf, "resume_update_duration_ms", "Resume update duration in milliseconds", resumeUpdateDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
