package exporter

import (
	"reqsynth/internal/config"
	"reqsynth/internal/model"
)

// Exporter is the unified interface for all output strategies
type Exporter interface {
	Export(report *model.Report, cfg *config.Config) error
}
