// Package pipeline is the Kanban view of leads grouped by status.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/xavierca1/lynkupro-api/internal/client"
	"github.com/xavierca1/lynkupro-api/internal/entity"
)

var ErrLeadNotOnBoard = errors.New("lead is not in the source column")

type LeadSource interface {
	ListAll(ctx context.Context, params url.Values) ([]client.Lead, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status entity.Status) (*client.Lead, error)
}

type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// API is what the board needs from the server; *client.LeadClient implements it.
type API interface {
	LeadSource
	StatusUpdater
	Deleter
}

// Notifier shows transient feedback to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Column struct {
	Status  entity.Status
	Label   string
	Color   string
	Visible bool
	Leads   []client.Lead
}

type ColumnStats struct {
	Count      int
	TotalValue float64
}

// Board holds one column per status in pipeline order. The server is the
// only source of truth: a failed move is undone by refetching everything.
type Board struct {
	api      API
	notifier Notifier
	logger   *slog.Logger
	params   url.Values

	mu      sync.Mutex
	columns []Column
	stale   bool
}

func NewBoard(api API, notifier Notifier, params url.Values, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{api: api, notifier: notifier, params: params, logger: logger}
	b.columns = make([]Column, len(entity.Statuses))
	for i, s := range entity.Statuses {
		b.columns[i] = Column{Status: s, Label: StatusLabel(s), Color: StatusColor(s), Visible: true}
	}
	return b
}

// Load replaces every column with a fresh fetch.
func (b *Board) Load(ctx context.Context) error {
	leads, err := b.api.ListAll(ctx, b.params)
	if err != nil {
		return fmt.Errorf("load pipeline: %w", err)
	}

	grouped := make(map[entity.Status][]client.Lead, len(entity.Statuses))
	for _, l := range leads {
		grouped[l.Status] = append(grouped[l.Status], l)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.columns {
		b.columns[i].Leads = grouped[b.columns[i].Status]
	}
	b.stale = false
	return nil
}

// Stale reports that a failed move could not be confirmed by a refetch.
// The board shows its last known server state until the next Load.
func (b *Board) Stale() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stale
}

func (b *Board) column(s entity.Status) *Column {
	for i := range b.columns {
		if b.columns[i].Status == s {
			return &b.columns[i]
		}
	}
	return nil
}

// Columns returns a copy of every column, hidden ones included.
func (b *Board) Columns() []Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Column, len(b.columns))
	for i, c := range b.columns {
		c.Leads = append([]client.Lead(nil), c.Leads...)
		out[i] = c
	}
	return out
}

func (b *Board) VisibleColumns() []Column {
	var out []Column
	for _, c := range b.Columns() {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) SetColumnVisible(s entity.Status, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c := b.column(s); c != nil {
		c.Visible = visible
	}
}

func (b *Board) ToggleColumn(s entity.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c := b.column(s); c != nil {
		c.Visible = !c.Visible
	}
}

func (b *Board) Stats(s entity.Status) ColumnStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	var st ColumnStats
	if c := b.column(s); c != nil {
		st.Count = len(c.Leads)
		for _, l := range c.Leads {
			st.TotalValue += l.Value
		}
	}
	return st
}

// Move drops a card at index in column to. Moving within a column only
// reorders locally. Moving across columns updates the board first, then
// sends exactly one status change; if that fails the board is refetched.
func (b *Board) Move(ctx context.Context, leadID string, from, to entity.Status, index int) error {
	b.mu.Lock()
	src, dst := b.column(from), b.column(to)
	if src == nil || dst == nil {
		b.mu.Unlock()
		return fmt.Errorf("unknown column %q or %q", from, to)
	}

	pos := -1
	for i, l := range src.Leads {
		if l.ID == leadID {
			pos = i
			break
		}
	}
	if pos < 0 {
		b.mu.Unlock()
		return ErrLeadNotOnBoard
	}

	lead := src.Leads[pos]
	original := lead
	src.Leads = append(src.Leads[:pos:pos], src.Leads[pos+1:]...)

	if from == to {
		src.Leads = insertAt(src.Leads, index, lead)
		b.mu.Unlock()
		return nil
	}

	lead.Status = to
	dst.Leads = insertAt(dst.Leads, index, lead)
	b.mu.Unlock()

	updated, err := b.api.UpdateStatus(ctx, leadID, to)
	if err != nil {
		b.logger.Warn("status change failed, refetching pipeline", "lead_id", leadID, "to", to, "error", err)
		b.notifier.Error("Failed to update lead status")
		if lerr := b.Load(ctx); lerr != nil {
			b.logger.Error("pipeline refetch failed", "error", lerr)
			b.revert(original, to, pos)
			return errors.Join(err, lerr)
		}
		return err
	}

	if updated != nil {
		b.replace(to, *updated)
	}
	b.notifier.Success("Lead moved to " + StatusLabel(to))
	return nil
}

// replace swaps in the server's copy of a lead if it is still where the
// move put it.
func (b *Board) replace(s entity.Status, lead client.Lead) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.column(s)
	if c == nil || lead.Status != s {
		return
	}
	for i := range c.Leads {
		if c.Leads[i].ID == lead.ID {
			c.Leads[i] = lead
			return
		}
	}
}

// revert puts a card back where it was before a rejected move and marks
// the board stale.
func (b *Board) revert(lead client.Lead, moved entity.Status, pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stale = true
	if dst := b.column(moved); dst != nil {
		for i := range dst.Leads {
			if dst.Leads[i].ID == lead.ID {
				dst.Leads = append(dst.Leads[:i:i], dst.Leads[i+1:]...)
				break
			}
		}
	}
	if src := b.column(lead.Status); src != nil {
		src.Leads = insertAt(src.Leads, pos, lead)
	}
}

// Remove deletes a lead on the server and refetches.
func (b *Board) Remove(ctx context.Context, leadID string) error {
	if err := b.api.Delete(ctx, leadID); err != nil {
		b.notifier.Error("Failed to delete lead")
		return err
	}
	b.notifier.Success("Lead deleted successfully")
	return b.Load(ctx)
}

func insertAt(leads []client.Lead, index int, lead client.Lead) []client.Lead {
	if index < 0 {
		index = 0
	}
	if index > len(leads) {
		index = len(leads)
	}
	leads = append(leads, client.Lead{})
	copy(leads[index+1:], leads[index:])
	leads[index] = lead
	return leads
}
