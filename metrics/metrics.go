package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the relay, the advisor and the HTTP layer report to.
type Recorder interface {
	SetConnections(n int)
	RecordRelayedMessage()
	RecordDelivery(event string, delivered bool)
	RecordDroppedFrame(reason string)
	RecordLLMFallback(capability string)
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	connections   prometheus.Gauge
	relayed       prometheus.Counter
	deliveries    *prometheus.CounterVec
	droppedFrames *prometheus.CounterVec
	llmFallbacks  *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchai_realtime_connections",
			Help: "Users currently bound to a realtime channel.",
		}),
		relayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchai_relayed_messages_total",
			Help: "Chat messages persisted through the realtime relay.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchai_realtime_deliveries_total",
			Help: "Server pushes by event and outcome.",
		}, []string{"event", "result"}),
		droppedFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchai_realtime_dropped_frames_total",
			Help: "Inbound realtime frames dropped by reason.",
		}, []string{"reason"}),
		llmFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchai_llm_fallbacks_total",
			Help: "LLM calls answered with the static fallback.",
		}, []string{"capability"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchai_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.connections,
		c.relayed,
		c.deliveries,
		c.droppedFrames,
		c.llmFallbacks,
		c.httpStatus,
	)
	return c
}

func (c *Collector) SetConnections(n int) {
	c.connections.Set(float64(n))
}

func (c *Collector) RecordRelayedMessage() {
	c.relayed.Inc()
}

func (c *Collector) RecordDelivery(event string, delivered bool) {
	result := "absent"
	if delivered {
		result = "delivered"
	}
	c.deliveries.WithLabelValues(event, result).Inc()
}

func (c *Collector) RecordDroppedFrame(reason string) {
	c.droppedFrames.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordLLMFallback(capability string) {
	c.llmFallbacks.WithLabelValues(capability).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Middleware counts the final status code of every request.
func Middleware(r Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		r.RecordHTTPStatus(status)
		return err
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) SetConnections(int)          {}
func (Nop) RecordRelayedMessage()       {}
func (Nop) RecordDelivery(string, bool) {}
func (Nop) RecordDroppedFrame(string)   {}
func (Nop) RecordLLMFallback(string)    {}
func (Nop) RecordHTTPStatus(int)        {}
