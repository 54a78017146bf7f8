package srdr

import (
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/catalog"
	"github.com/jensjap/SRDR-ImportProject2/config"
)

// ImportOptions holds configuration for an import.
type ImportOptions struct {
	// Study ownership
	projectID int64
	creatorID int64

	// Reference data
	catalog *catalog.Catalog

	// Side logs, disabled when empty
	fatalLog    string
	matchingLog string

	logger *zap.Logger
	runID  string
}

// defaultOptions returns the default import options.
func defaultOptions() ImportOptions {
	return ImportOptions{
		projectID: config.DefaultProjectID,
		creatorID: config.DefaultCreatorID,
		catalog:   catalog.Default(),
		logger:    zap.NewNop(),
		runID:     NewRunID(),
	}
}

// clone creates a copy of ImportOptions. The catalog is shared; it is
// never modified after loading.
func (o ImportOptions) clone() ImportOptions {
	return ImportOptions{
		projectID:   o.projectID,
		creatorID:   o.creatorID,
		catalog:     o.catalog,
		fatalLog:    o.fatalLog,
		matchingLog: o.matchingLog,
		logger:      o.logger,
		runID:       o.runID,
	}
}
