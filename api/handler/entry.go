package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifemap/diary/api/transport"
	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/pkg/httpcontext"
	entryUC "github.com/lifemap/diary/usecase/entry"
)

type EntryHandler struct {
	baseHandler
	uc *entryUC.UseCase
}

func NewEntryHandler(uc *entryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Save (upsert) the entry stored under its date
// @Tags entries
// @Router /api/v1/entries [put]
func (h *EntryHandler) Save(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var entry domain.DiaryEntry
	if err := json.Unmarshal(ctx.PostBody(), &entry); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, text, err := h.uc.Save(stdCtx, userID, &entry)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.SavedEntry{Entry: saved, Text: text})
}

// @Summary Get the entry stored under a date
// @Tags entries
// @Router /api/v1/entries/by-date/{date} [get]
func (h *EntryHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	date, _ := ctx.UserValue("date").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.Get(stdCtx, userID, date)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entry)
}

// @Summary Regenerate the text block for a stored entry
// @Tags entries
// @Router /api/v1/entries/by-date/{date}/text [get]
func (h *EntryHandler) Text(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	date, _ := ctx.UserValue("date").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	text, err := h.uc.Render(stdCtx, userID, date)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{
		"date": date,
		"text": text,
	})
}

// @Summary Get the most recently saved entry
// @Tags entries
// @Router /api/v1/entries/latest [get]
func (h *EntryHandler) Latest(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.Latest(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entry)
}

// @Summary List recent entries, newest save first
// @Tags entries
// @Router /api/v1/entries [get]
func (h *EntryHandler) Recent(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.Recent(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

// @Summary Stream live history snapshots as server-sent events
// @Tags entries
// @Router /api/v1/entries/watch [get]
func (h *EntryHandler) Watch(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.adapter.AttachStream(ctx)

	watch, err := h.uc.Watch(stdCtx, userID)
	if err != nil {
		cancel()
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer watch.Close()

		// Each event carries the full snapshot; a dropped connection ends
		// the range when the watch goroutine observes the dead context.
		for snapshot := range watch.Snapshots() {
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.Warn("history snapshot encode failed", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: history\ndata: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}
