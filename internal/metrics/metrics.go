package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// MutationConflicts counts conditional updates that lost the version race,
	// labelled by operation (redeem, recharge, block, unblock). Retried
	// attempts count individually.
	MutationConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifticon_mutation_conflicts_total",
			Help: "Conditional gifticon updates that lost the version race, per operation.",
		},
		[]string{"operation"},
	)

	// AuditAppendFailures counts audit-log appends that failed after the
	// balance commit already succeeded. The money moved; these are the
	// records operators must reconcile by hand.
	AuditAppendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifticon_audit_append_failures_total",
			Help: "Audit log appends that failed after a successful balance commit, per record kind.",
		},
		[]string{"kind"},
	)

	// SecurityHashFallbacks counts cards created with the degraded FNV
	// integrity stamp instead of SHA-256.
	SecurityHashFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gifticon_security_hash_fallbacks_total",
			Help: "Gifticons created with the fallback checksum instead of a cryptographic hash.",
		},
	)
)

// Register registers all ledger collectors with the default registry.
// Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			MutationConflicts,
			AuditAppendFailures,
			SecurityHashFallbacks,
		)
	})
}
