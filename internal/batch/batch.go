// Package batch orchestrates multi-file statement processing. Files are
// processed strictly in sequence against one shop-registry snapshot; a
// single failing file fails the whole batch, naming every failed file.
package batch

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/extractor"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/parser"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

// File is one uploaded statement, fully read into memory.
type File struct {
	Name string
	Data []byte
}

// Error aggregates the names of every file that failed in a batch. The
// message language follows the pipeline that produced it, matching what the
// dashboard shows the user.
type Error struct {
	Failed []string
	format models.Format
}

func (e *Error) Error() string {
	names := strings.Join(e.Failed, ", ")
	if e.format == models.FormatING {
		return "error al procesar los archivos: " + names
	}
	return "failed to process files: " + names
}

// mergeTolerance governs the merged-batch summary check. It is deliberately
// tighter than the per-file 0.10 reconciliation tolerance.
var mergeTolerance = decimal.RequireFromString("0.01")

// Orchestrator runs a format pipeline over a batch of files.
type Orchestrator struct {
	shops registry.Provider
	log   zerolog.Logger
}

// New returns an orchestrator reading the shop registry from the given
// provider.
func New(shops registry.Provider, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{shops: shops, log: log}
}

// ProcessIberia processes Iberia Cards statements one at a time and merges
// the per-file results. The registry is fetched exactly once so every file
// in the batch categorizes against the same snapshot. If any file fails,
// the whole batch fails and all results are discarded.
func (o *Orchestrator) ProcessIberia(ctx context.Context, files []File) (*models.ProcessingResult, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to process")
	}
	shops, err := o.shops.List(ctx)
	if err != nil {
		return nil, err
	}

	log := o.log.With().Str("batch_id", uuid.NewString()).Logger()
	proc := parser.NewIberiaProcessor(log)

	merged := &models.ProcessingResult{Transactions: []models.CardTransaction{}}
	var failed []string
	for _, f := range files {
		res, err := processIberiaFile(proc, f, shops)
		if err != nil {
			log.Warn().Str("file", f.Name).Err(err).Msg("statement processing failed")
			failed = append(failed, f.Name)
			continue
		}
		merged.Transactions = append(merged.Transactions, res.Transactions...)
		merged.CalculatedTotal = merged.CalculatedTotal.Add(res.CalculatedTotal)
		merged.ExpectedTotal = merged.ExpectedTotal.Add(res.ExpectedTotal)
		log.Info().
			Str("file", f.Name).
			Int("transactions", len(res.Transactions)).
			Str("total", res.CalculatedTotal.StringFixed(2)).
			Bool("totals_match", res.TotalsMatch).
			Msg("statement processed")
	}

	if len(failed) > 0 {
		return nil, &Error{Failed: failed, format: models.FormatIberia}
	}

	merged.TotalsMatch = merged.CalculatedTotal.
		Sub(merged.ExpectedTotal).Abs().LessThan(mergeTolerance)
	return merged, nil
}

func processIberiaFile(proc *parser.IberiaProcessor, f File, shops []registry.Entry) (*models.ProcessingResult, error) {
	grid, err := extractor.ExtractGrid(f.Name, f.Data)
	if err != nil {
		return nil, err
	}
	return proc.Process(grid, shops)
}

// ProcessING is the ING counterpart of ProcessIberia. ING exports carry no
// control total, so the merged result always reconciles.
func (o *Orchestrator) ProcessING(ctx context.Context, files []File) (*models.INGProcessingResult, error) {
	if len(files) == 0 {
		return nil, errors.New("no hay archivos para procesar")
	}
	shops, err := o.shops.List(ctx)
	if err != nil {
		return nil, err
	}

	log := o.log.With().Str("batch_id", uuid.NewString()).Logger()
	proc := parser.NewINGProcessor(log)

	merged := &models.INGProcessingResult{
		Transactions: []models.INGTransaction{},
		TotalsMatch:  true,
	}
	var failed []string
	for _, f := range files {
		res, err := processINGFile(proc, f, shops)
		if err != nil {
			log.Warn().Str("file", f.Name).Err(err).Msg("statement processing failed")
			failed = append(failed, f.Name)
			continue
		}
		merged.Transactions = append(merged.Transactions, res.Transactions...)
		merged.CalculatedTotal = merged.CalculatedTotal.Add(res.CalculatedTotal)
		log.Info().
			Str("file", f.Name).
			Int("transactions", len(res.Transactions)).
			Str("total", res.CalculatedTotal.StringFixed(2)).
			Msg("statement processed")
	}

	if len(failed) > 0 {
		return nil, &Error{Failed: failed, format: models.FormatING}
	}
	return merged, nil
}

func processINGFile(proc *parser.INGProcessor, f File, shops []registry.Entry) (*models.INGProcessingResult, error) {
	grid, err := extractor.ExtractGrid(f.Name, f.Data)
	if err != nil {
		return nil, err
	}
	return proc.Process(grid, shops)
}
