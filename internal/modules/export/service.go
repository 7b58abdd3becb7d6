package export

import (
	"fmt"

	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/aristath/coindash/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// MarketSource provides the filtered, sorted listing
type MarketSource interface {
	Sorted(q market.Query) ([]market.Asset, error)
}

// PortfolioSource provides ledger transactions and valued holdings
type PortfolioSource interface {
	AllTransactions() []portfolio.Transaction
	Transactions(assetID string) []portfolio.Transaction
	Summary() portfolio.Summary
}

// AlertSource provides the alert list
type AlertSource interface {
	Visible(showTriggered bool) []alerts.Alert
}

// Request selects what to export
type Request struct {
	Dataset  Dataset
	Format   Format
	Basename string
	// Market narrows the market dataset; pagination is ignored
	Market market.Query
	// AssetID narrows the transactions dataset to one asset
	AssetID string
	// ActiveOnly drops triggered alerts from the alerts dataset
	ActiveOnly bool
}

// Document is an encoded export
type Document struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Records     int    `json:"records"`
	Data        []byte `json:"-"`
}

// Service builds export documents from the live module state
type Service struct {
	market    MarketSource
	portfolio PortfolioSource
	alerts    AlertSource
	sink      *FileSink
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates an export service; sink may be nil when saving is not needed
func NewService(m MarketSource, p PortfolioSource, a AlertSource, sink *FileSink, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		market:    m,
		portfolio: p,
		alerts:    a,
		sink:      sink,
		events:    eventManager,
		log:       log.With().Str("service", "export").Logger(),
	}
}

// Records collects the dataset's records
func (s *Service) Records(req Request) ([]Record, error) {
	switch req.Dataset {
	case DatasetMarket:
		assets, err := s.market.Sorted(req.Market)
		if err != nil {
			return nil, err
		}
		return MarketRecords(assets), nil
	case DatasetTransactions:
		if req.AssetID != "" {
			return TransactionRecords(s.portfolio.Transactions(req.AssetID)), nil
		}
		return TransactionRecords(s.portfolio.AllTransactions()), nil
	case DatasetHoldings:
		return HoldingRecords(s.portfolio.Summary()), nil
	case DatasetAlerts:
		return AlertRecords(s.alerts.Visible(!req.ActiveOnly)), nil
	}
	return nil, fmt.Errorf("unknown dataset %q", req.Dataset)
}

// Build encodes the dataset into a document
func (s *Service) Build(req Request) (Document, error) {
	records, err := s.Records(req)
	if err != nil {
		return Document{}, err
	}

	data, err := Encode(req.Format, records)
	if err != nil {
		return Document{}, err
	}

	return Document{
		FileName:    FileName(req.Basename, req.Format),
		ContentType: req.Format.ContentType(),
		Records:     len(records),
		Data:        data,
	}, nil
}

// Save builds the document and writes it to the export directory
func (s *Service) Save(req Request) (Document, string, error) {
	if s.sink == nil {
		return Document{}, "", fmt.Errorf("export directory is not configured")
	}

	doc, err := s.Build(req)
	if err != nil {
		return Document{}, "", err
	}

	path, err := s.sink.Write(doc.FileName, doc.Data)
	if err != nil {
		s.events.EmitError("export", err, map[string]interface{}{"file_name": doc.FileName})
		return Document{}, "", err
	}

	s.log.Info().
		Str("dataset", string(req.Dataset)).
		Str("format", string(req.Format)).
		Str("path", path).
		Int("records", doc.Records).
		Msg("Export saved")

	s.events.EmitTyped("export", &events.ExportWrittenData{
		Dataset:  string(req.Dataset),
		Format:   string(req.Format),
		FileName: doc.FileName,
		Records:  doc.Records,
		Bytes:    len(doc.Data),
	})
	return doc, path, nil
}
