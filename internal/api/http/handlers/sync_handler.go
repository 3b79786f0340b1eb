package handlers

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/service"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// SyncHandler streams one table's change feed as newline delimited JSON. The
// subscription is opened before the snapshot is read, so a client sees every
// row at least once: snapshot rows arrive as txid-0 inserts, live changes
// follow with their real transaction ids, and replays of rows committed during
// the handoff are idempotent upserts on the client side.
type SyncHandler struct {
	source      syncstream.Source
	staff       *service.StaffService
	cases       *service.CaseService
	assignments *service.AssignmentService
	logger      *zap.Logger
}

// NewSyncHandler constructs handler.
func NewSyncHandler(source syncstream.Source, staff *service.StaffService, cases *service.CaseService, assignments *service.AssignmentService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		source:      source,
		staff:       staff,
		cases:       cases,
		assignments: assignments,
		logger:      logger,
	}
}

// Stream handles GET /api/sync?table=<name>.
func (h *SyncHandler) Stream(c *fiber.Ctx) error {
	table := c.Query("table")
	if !syncstream.KnownTable(table) {
		return apperrors.NewValidationError("unknown table", map[string]any{"table": table})
	}

	ctx, stop := context.WithCancel(context.Background())

	events, unsubscribe, err := h.source.Subscribe(ctx, table)
	if err != nil {
		stop()
		return apperrors.MapError(err)
	}

	snapshot, err := h.snapshotEvents(c.UserContext(), table)
	if err != nil {
		unsubscribe()
		stop()
		return err
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stop()
		defer unsubscribe()

		enc := json.NewEncoder(w)
		for _, event := range snapshot {
			if err := enc.Encode(event); err != nil {
				return
			}
		}
		if err := w.Flush(); err != nil {
			return
		}

		for event := range events {
			if err := enc.Encode(event); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				h.logger.Debug("sync client disconnected",
					zap.String("table", table), zap.Error(err))
				return
			}
		}
	}))
	return nil
}

// snapshotEvents reads the table's current rows as txid-0 insert events.
func (h *SyncHandler) snapshotEvents(ctx context.Context, table string) ([]syncstream.ChangeEvent, error) {
	var records []any

	switch table {
	case syncstream.TableStaff:
		list, err := h.staff.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range list {
			records = append(records, &list[i])
		}
	case syncstream.TableCases:
		list, err := h.cases.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range list {
			records = append(records, &list[i])
		}
	case syncstream.TableAssignments:
		list, err := h.assignments.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range list {
			records = append(records, &list[i])
		}
	}

	events := make([]syncstream.ChangeEvent, 0, len(records))
	for _, record := range records {
		event, err := syncstream.NewChangeEvent(table, syncstream.OpInsert, 0, record)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		events = append(events, event)
	}
	return events, nil
}
