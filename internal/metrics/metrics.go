// Package metrics exposes keyword-store gauges to Prometheus.
package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	partitionRecordsDesc = prometheus.NewDesc(
		"seo_keyword_partition_records",
		"Number of keyword records per store partition (empty site is the owner)",
		[]string{"site"},
		nil,
	)
	lastIngestionDesc = prometheus.NewDesc(
		"seo_last_ingestion_timestamp_seconds",
		"Completion time of the most recent ingestion run",
		nil,
		nil,
	)
)

// PartitionCount is one partition's record count keyed by competitor site.
type PartitionCount struct {
	Site  string
	Count int
}

// PartitionReader supplies per-partition record counts for scraping.
type PartitionReader interface {
	PartitionCounts(ctx context.Context) ([]PartitionCount, error)
	LastIngestionTime(ctx context.Context) (time.Time, error)
}

// StoreCollector is a custom Prometheus collector that reads partition sizes
// from the database on each scrape.
type StoreCollector struct {
	reader PartitionReader
}

// Describe sends the metric descriptors to the channel.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- partitionRecordsDesc
	ch <- lastIngestionDesc
}

// Collect queries the database for partition sizes and emits them as gauges.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.reader.PartitionCounts(ctx)
	if err != nil {
		log.Printf("metrics: collect partition counts: %v", err)
		return
	}
	for _, pc := range counts {
		ch <- prometheus.MustNewConstMetric(
			partitionRecordsDesc,
			prometheus.GaugeValue,
			float64(pc.Count),
			pc.Site,
		)
	}

	last, err := c.reader.LastIngestionTime(ctx)
	if err != nil {
		log.Printf("metrics: collect last ingestion: %v", err)
		return
	}
	if !last.IsZero() {
		ch <- prometheus.MustNewConstMetric(
			lastIngestionDesc,
			prometheus.GaugeValue,
			float64(last.Unix()),
		)
	}
}

var registerOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(reader PartitionReader) {
	registerOnce.Do(func() {
		prometheus.MustRegister(&StoreCollector{reader: reader})
	})
}
