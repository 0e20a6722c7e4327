package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"zonewarden.io/internal/models"
)

const Namespace = "zonewarden"

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

type ValidationMetrics struct {
	MetricsEnabled bool

	validationsCounter *prometheus.CounterVec
	errorsCounter      *prometheus.CounterVec
	warningsCounter    *prometheus.CounterVec
	overlapsCounter    prometheus.Counter
	storeErrorsCounter *prometheus.CounterVec
}

func NewValidationMetrics() *ValidationMetrics {
	return new(ValidationMetrics)
}

func (vm *ValidationMetrics) SetupAndRegisterCollectors(registry prometheus.Registerer) {
	vm.validationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "validations_total",
		Help:      "Record validations by record type and outcome",
	}, []string{"type", "outcome"})
	vm.errorsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "validation_errors_total",
		Help:      "Validation errors by field",
	}, []string{"field"})
	vm.warningsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "validation_warnings_total",
		Help:      "Advisory warnings by record type",
	}, []string{"type"})
	vm.overlapsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "zone_overlaps_total",
		Help:      "Zone creations refused for parent/child overlap",
	})
	vm.storeErrorsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "storage_errors_total",
		Help:      "Storage failures by operation",
	}, []string{"operation"})

	registry.MustRegister(vm.validationsCounter, vm.errorsCounter, vm.warningsCounter, vm.overlapsCounter, vm.storeErrorsCounter)
	vm.MetricsEnabled = true
}

// CountValidation records one verdict
func (vm *ValidationMetrics) CountValidation(recordType models.RecordType, result models.ValidationResult) {
	if vm == nil || !vm.MetricsEnabled {
		return
	}

	outcome := OutcomeAccepted
	if !result.Valid {
		outcome = OutcomeRejected
	}
	vm.validationsCounter.WithLabelValues(recordType.String(), outcome).Inc()

	for field := range result.Errors {
		vm.errorsCounter.WithLabelValues(field).Inc()
	}
	if len(result.Warnings) > 0 {
		vm.warningsCounter.WithLabelValues(recordType.String()).Add(float64(len(result.Warnings)))
	}
}

func (vm *ValidationMetrics) CountOverlap() {
	if vm == nil || !vm.MetricsEnabled {
		return
	}
	vm.overlapsCounter.Inc()
}

func (vm *ValidationMetrics) CountStorageError(operation string) {
	if vm == nil || !vm.MetricsEnabled {
		return
	}
	vm.storeErrorsCounter.WithLabelValues(operation).Inc()
}
