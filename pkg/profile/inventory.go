package profile

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/metrics"
	"github.com/ajitpratap0/docqual/pkg/observability"
)

// Inventory is the column inventory table. Every row has 1+MaxWidth cells.
type Inventory struct {
	Header   []string
	Rows     [][]string
	MaxWidth int
}

// BuildInventory re-materializes each named collection and lists its
// columns in first-seen order, padded to the widest collection. A
// collection that cannot be read gets ERROR in its first column cell. An
// empty names list is an ErrorTypeNoCollections error.
func BuildInventory(ctx context.Context, src core.Source, names []string, log *zap.Logger) (*Inventory, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrorTypeNoCollections, "database has no collections; column inventory width is undefined")
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, span := observability.StartSpan(ctx, "inventory.build")
	defer span.End()
	timer := metrics.NewTimer("inventory")
	defer timer.ObserveStage()

	columns := make([][]string, len(names))
	maxWidth := 0
	for i, name := range names {
		docs, err := src.Materialize(ctx, name)
		if err != nil {
			log.Warn("Collection unreadable for inventory", zap.String("collection", name), zap.Error(err))
			columns[i] = []string{ErrorCell}
		} else {
			columns[i] = Project(docs).Names()
		}
		if w := len(columns[i]); w > maxWidth {
			maxWidth = w
		}
	}

	inv := &Inventory{
		Header:   InventoryHeader(maxWidth),
		Rows:     make([][]string, len(names)),
		MaxWidth: maxWidth,
	}
	for i, name := range names {
		row := make([]string, 1+maxWidth)
		row[0] = name
		copy(row[1:], columns[i])
		inv.Rows[i] = row
	}

	span.SetAttribute("collections", len(names))
	span.SetAttribute("max_width", maxWidth)
	return inv, nil
}

// InventoryHeader returns "File Name" followed by Column_1 … Column_width.
func InventoryHeader(width int) []string {
	header := make([]string, 1+width)
	header[0] = "File Name"
	for i := 1; i <= width; i++ {
		header[i] = "Column_" + strconv.Itoa(i)
	}
	return header
}
