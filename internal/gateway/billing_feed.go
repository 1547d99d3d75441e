package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"o365-reconciler/internal/domain"
	"o365-reconciler/internal/logger"
)

// CSVBillingFeed reads billing snapshots exported from the billing system:
// line items (pre-joined with the tenant-ID and expiry custom fields,
// pre-filtered to active accounts and active line items) and problem clients.
type CSVBillingFeed struct {
	lineItemsPath string
	problemsPath  string
	logger        *logger.Logger
}

// NewCSVBillingFeed creates a feed over the given snapshot files. The
// problems path may be empty when no problem-client snapshot is available.
func NewCSVBillingFeed(lineItemsPath, problemsPath string, log *logger.Logger) *CSVBillingFeed {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &CSVBillingFeed{lineItemsPath: lineItemsPath, problemsPath: problemsPath, logger: log}
}

// GetLineItems reads and parses the line-item snapshot. Columns:
// client_id, product_id, product_name, quantity, company_name, tenant_ids,
// expiry. Unparseable quantities coerce to 0 so one bad row cannot abort the
// pass; unparseable IDs are contract violations and fail the read.
func (f *CSVBillingFeed) GetLineItems(ctx context.Context) ([]domain.BillingLineItem, error) {
	file, err := os.Open(f.lineItemsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open billing snapshot %s: %w", f.lineItemsPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", f.lineItemsPath, err)
	}

	var items []domain.BillingLineItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", f.lineItemsPath, err)
		}

		clientID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("could not parse client_id '%s': %w", record[0], err)
		}
		productID, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("could not parse product_id '%s': %w", record[1], err)
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			f.logger.Debugw("unparseable quantity coerced to 0", "client_id", clientID, "product_id", productID, "raw", record[3])
			quantity = 0
		}

		items = append(items, domain.BillingLineItem{
			ClientID:    clientID,
			ProductID:   productID,
			ProductName: record[2],
			Quantity:    quantity,
			CompanyName: record[4],
			TenantIDs:   domain.ParseTenantIDs(record[5]),
			Expiry:      record[6],
		})
	}
	return items, nil
}

// GetProblemClients reads the problem-client snapshot: client_id,
// company_name, tenant_id, expiry, where a blank field marks the missing
// attribute. An unconfigured problems path yields no problem clients.
func (f *CSVBillingFeed) GetProblemClients(ctx context.Context) ([]domain.ProblemClient, error) {
	if f.problemsPath == "" {
		return nil, nil
	}

	file, err := os.Open(f.problemsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem-client snapshot %s: %w", f.problemsPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", f.problemsPath, err)
	}

	var problems []domain.ProblemClient
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", f.problemsPath, err)
		}

		clientID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("could not parse client_id '%s': %w", record[0], err)
		}

		problems = append(problems, domain.ProblemClient{
			ClientID:    clientID,
			CompanyName: record[1],
			HasTenantID: strings.TrimSpace(record[2]) != "",
			HasExpiry:   strings.TrimSpace(record[3]) != "",
		})
	}
	return problems, nil
}
