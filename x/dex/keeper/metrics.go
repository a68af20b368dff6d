package keeper

import (
	"sync"

	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/hashicorp/go-metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pairswap/pairswap/x/dex/types"
)

// DEXMetrics holds all Prometheus metrics for the DEX module
type DEXMetrics struct {
	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	SwapVolume *prometheus.CounterVec
	SwapHops   prometheus.Histogram

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PairReserves     *prometheus.GaugeVec
	LPTokenSupply    *prometheus.GaugeVec

	// Pair metrics
	PairsCreated      prometheus.Counter
	ProtocolFeeMinted *prometheus.CounterVec

	// Bootstrap metrics
	BootstrapContributions *prometheus.CounterVec
	BootstrapTransitions   *prometheus.CounterVec
}

var (
	dexMetricsOnce sync.Once
	dexMetrics     *DEXMetrics
)

// NewDEXMetrics creates and registers DEX metrics (singleton pattern)
func NewDEXMetrics() *DEXMetrics {
	dexMetricsOnce.Do(func() {
		dexMetrics = &DEXMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"kind", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"asset"},
			),
			SwapHops: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "swap_path_hops",
					Help:      "Number of pairs traversed per swap",
					Buckets:   []float64{1, 2, 3, 4, 5, 8},
				},
			),

			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to pairs",
				},
				[]string{"pair", "asset"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from pairs",
				},
				[]string{"pair", "asset"},
			),
			PairReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "pair_reserves",
					Help:      "Current pair reserves",
				},
				[]string{"pair", "asset"},
			),
			LPTokenSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "lp_token_supply",
					Help:      "LP token supply per pair",
				},
				[]string{"pair"},
			),

			PairsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "pair_creations_total",
					Help:      "Total number of pairs created",
				},
			),
			ProtocolFeeMinted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "protocol_fee_minted_total",
					Help:      "LP shares minted to the protocol fee receiver",
				},
				[]string{"pair"},
			),

			BootstrapContributions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "bootstrap_contributions_total",
					Help:      "Bootstrap contributions accepted",
				},
				[]string{"pair"},
			),
			BootstrapTransitions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairswap",
					Subsystem: "dex",
					Name:      "bootstrap_transitions_total",
					Help:      "Bootstrap lifecycle transitions",
				},
				[]string{"transition"},
			),
		}
	})
	return dexMetrics
}

// incrTelemetry mirrors a lifecycle counter into the node telemetry sink.
func incrTelemetry(name string, labels ...metrics.Label) {
	telemetry.IncrCounterWithLabels([]string{types.ModuleName, name}, 1, labels)
}
