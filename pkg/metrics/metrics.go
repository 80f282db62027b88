// Package metrics exposes bus, gear and group state as Prometheus metrics,
// following the metricCollector/NewDesc/MustNewConstMetric pattern this
// driver's storage-tooling ancestor uses for its per-drive gauges.
package metrics

import (
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/go-dali/dalidrv/pkg/gear"
)

var (
	descGearPresent = prometheus.NewDesc(
		"dali_gear_present",
		"Boolean describing whether a gear slot is currently occupied",
		[]string{"transceiver", "short_address"}, nil,
	)
	descGearLevel = prometheus.NewDesc(
		"dali_gear_level",
		"Current dim level of a gear (0-254)",
		[]string{"transceiver", "short_address"}, nil,
	)
	descGearType = prometheus.NewDesc(
		"dali_gear_type",
		"DALI device type code reported by QueryDeviceType",
		[]string{"transceiver", "short_address"}, nil,
	)
	descGroupMembers = prometheus.NewDesc(
		"dali_group_member_count",
		"Number of gears currently belonging to a group",
		[]string{"transceiver", "group"}, nil,
	)
	descPendingRequests = prometheus.NewDesc(
		"dali_bus_pending_requests",
		"Number of bus requests awaiting a correlated response",
		[]string{"transceiver"}, nil,
	)
)

// Collector implements prometheus.Collector over a live Model snapshot; it
// is registered once per transceiver.
type Collector struct {
	transceiverID string
	model         *gear.Model
	pending       func() int
}

func NewCollector(transceiverID string, model *gear.Model, pending func() int) *Collector {
	return &Collector{transceiverID: transceiverID, model: model, pending: pending}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descGearPresent
	ch <- descGearLevel
	ch <- descGearType
	ch <- descGroupMembers
	ch <- descPendingRequests
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, g := range c.model.Gears {
		addrLabel := shortAddrLabel(g.ShortAddress)
		present := float64(0)
		if g.Present {
			present = 1
		}
		ch <- prometheus.MustNewConstMetric(descGearPresent, prometheus.GaugeValue, present, c.transceiverID, addrLabel)
		if !g.Present {
			continue
		}
		ch <- prometheus.MustNewConstMetric(descGearLevel, prometheus.GaugeValue, float64(g.Level), c.transceiverID, addrLabel)
		ch <- prometheus.MustNewConstMetric(descGearType, prometheus.GaugeValue, float64(g.Type), c.transceiverID, addrLabel)
	}
	for _, grp := range c.model.Groups {
		ch <- prometheus.MustNewConstMetric(descGroupMembers, prometheus.GaugeValue, float64(len(grp.Members)), c.transceiverID, groupLabel(grp.Number))
	}
	if c.pending != nil {
		ch <- prometheus.MustNewConstMetric(descPendingRequests, prometheus.GaugeValue, float64(c.pending()), c.transceiverID)
	}
}

func shortAddrLabel(s uint8) string {
	return strconv.Itoa(int(s))
}

func groupLabel(g uint8) string {
	return strconv.Itoa(int(g))
}

// WriteText gathers c's metrics through a fresh pedantic registry and writes
// them in Prometheus text exposition format, for dalictl's one-shot dump.
func WriteText(w io.Writer, c *Collector) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
