package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty or nil option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept and creation should succeed", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingest metrics", func() {
			Convey("Then it should record ingested matches", func() {
				So(func() {
					RecordMatchIngested()
					RecordMatchIngested()
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate matches", func() {
				So(func() {
					RecordMatchDuplicate()
				}, ShouldNotPanic)
			})

			Convey("And it should record received actions and derived carries", func() {
				So(func() {
					RecordActionsReceived(1200)
					RecordCarriesDerived(85)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording valuation metrics", func() {
			Convey("Then it should record valued and skipped actions", func() {
				So(func() {
					RecordActionsValued(1150)
					RecordActionsSkipped(3)
				}, ShouldNotPanic)
			})

			Convey("And it should record fold latency", func() {
				So(func() {
					RecordFoldLatency(2.5)
					RecordFoldLatency(10.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			Convey("Then it should update per-report entry counts", func() {
				So(func() {
					UpdateStoreEntries("threat_creators", 480)
					UpdateStoreEntries("team_threat", 20)
				}, ShouldNotPanic)
			})

			Convey("And it should record merge and query latency", func() {
				So(func() {
					RecordStoreMergeLatency(1.0)
					RecordStoreQueryLatency(0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			Convey("Then it should update depth, capacity and utilization", func() {
				So(func() {
					UpdateQueueDepth(12)
					UpdateQueueCapacity(1024)
					UpdateQueueUtilization(12.0 / 1024.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record enqueue/dequeue counters", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording worker metrics", func() {
			Convey("Then it should update worker count and latency", func() {
				So(func() {
					UpdateWorkerCount(4)
					RecordWorkerProcessingLatency(7.5)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/matches", "POST", "202")
					RecordHTTPRequest("/leaderboard", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/matches", "POST", "202", 10.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update memory and goroutine gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024 * 100)
					UpdateSystemGoroutineCount(42)
				}, ShouldNotPanic)
			})

			Convey("And it should record GC pause time", func() {
				So(func() {
					RecordSystemGCPauseTime(0.5)
					RecordSystemGCPauseTime(2.0)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateQueueDepth(0)
					UpdateWorkerCount(0)
					RecordActionsValued(0)
					RecordActionsSkipped(0)
					RecordFoldLatency(0.0)
				}, ShouldNotPanic)
			})

			Convey("And using very large values", func() {
				So(func() {
					UpdateQueueDepth(1000000)
					RecordActionsValued(1 << 40)
					RecordFoldLatency(30000.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty label values", func() {
				So(func() {
					RecordHTTPRequest("", "", "200")
					UpdateStoreEntries("", 0)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func(id int) {
					for j := 0; j < 100; j++ {
						RecordMatchIngested()
						UpdateQueueDepth(j)
						RecordFoldLatency(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}(i)
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestRegistryExposition(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordMatchIngested()
			families, err := GetRegistry().Gather()

			Convey("Then gathering should succeed with registered families", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
