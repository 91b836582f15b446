package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifemap/diary/api/transport"
	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/pkg/httpcontext"
	"github.com/lifemap/diary/pkg/timeutil"
	draftUC "github.com/lifemap/diary/usecase/draft"
)

type DraftHandler struct {
	baseHandler
	uc *draftUC.UseCase
}

func NewDraftHandler(uc *draftUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get the current draft form
// @Tags draft
// @Router /api/v1/draft [get]
func (h *DraftHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.Get(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Replace the whole draft form
// @Tags draft
// @Router /api/v1/draft [put]
func (h *DraftHandler) Replace(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req domain.Draft
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.Replace(stdCtx, userID, &req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Add a work item row
// @Tags draft
// @Router /api/v1/draft/items [post]
func (h *DraftHandler) AddItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ItemAddRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
			return
		}
	}

	var initial *domain.WorkItem
	if req.Title != "" || req.Detail != "" {
		initial = &domain.WorkItem{Title: req.Title, Detail: req.Detail}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, draft, err := h.uc.AddItem(stdCtx, userID, initial)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.ItemResult{ItemID: id, DraftView: draftView(draft, false)})
}

// @Summary Remove a work item row
// @Tags draft
// @Router /api/v1/draft/items/{id} [delete]
func (h *DraftHandler) RemoveItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	itemID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.RemoveItem(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Edit a work item's text fields
// @Tags draft
// @Router /api/v1/draft/items/{id} [patch]
func (h *DraftHandler) EditItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	itemID, _ := ctx.UserValue("id").(string)

	var req transport.ItemEditRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.EditItem(stdCtx, userID, itemID, req.Title, req.Detail)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Overwrite a work item's timestamps
// @Tags draft
// @Router /api/v1/draft/items/{id}/timestamps [put]
func (h *DraftHandler) SetItemTimestamps(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	itemID, _ := ctx.UserValue("id").(string)

	var req transport.ItemTimestampsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	createdAt, err1 := time.Parse(time.RFC3339, req.CreatedAt)
	modifiedAt, err2 := time.Parse(time.RFC3339, req.ModifiedAt)
	if err1 != nil || err2 != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "timestamps must be RFC3339", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.SetItemTimestamps(stdCtx, userID, itemID, createdAt, modifiedAt)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Toggle a work item between active and completed
// @Tags draft
// @Router /api/v1/draft/items/{id}/toggle [post]
func (h *DraftHandler) ToggleItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	itemID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	newID, draft, err := h.uc.ToggleItem(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ItemResult{ItemID: newID, DraftView: draftView(draft, false)})
}

// @Summary Reposition an active work item
// @Tags draft
// @Router /api/v1/draft/items/{id}/move [post]
func (h *DraftHandler) MoveItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	itemID, _ := ctx.UserValue("id").(string)

	var req transport.ItemMoveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.MoveItem(stdCtx, userID, itemID, req.Direction)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Save the draft as the entry for its date
// @Tags draft
// @Router /api/v1/draft/save [post]
func (h *DraftHandler) Save(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, text, err := h.uc.Save(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.SavedEntry{Entry: entry, Text: text})
}

// @Summary Save, then advance the form to the next day
// @Tags draft
// @Router /api/v1/draft/next-day [post]
func (h *DraftHandler) NextDay(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, loaded, err := h.uc.NextDay(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, loaded))
}

// @Summary Reset the form date to today
// @Tags draft
// @Router /api/v1/draft/today [post]
func (h *DraftHandler) Today(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.Today(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, false))
}

// @Summary Load a stored entry into the form
// @Tags draft
// @Router /api/v1/draft/load [post]
func (h *DraftHandler) LoadEntry(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.LoadEntryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Date == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.LoadEntry(stdCtx, userID, req.Date)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, true))
}

// @Summary Load the most recent entry into the form
// @Tags draft
// @Router /api/v1/draft/load-latest [post]
func (h *DraftHandler) LoadLatest(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, loaded, err := h.uc.LoadLatest(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draftView(draft, loaded))
}

func draftView(draft *domain.Draft, loadedExisting bool) transport.DraftView {
	view := transport.DraftView{
		Draft:          draft,
		FullDateString: timeutil.FullDateString(draft.Date),
		LoadedExisting: loadedExisting,
	}
	if parsed, err := timeutil.ParseDate(draft.Date); err == nil {
		view.WeekNumber = timeutil.ISOWeekNumber(parsed)
	}

	if total := len(draft.Active) + len(draft.Completed); total > 0 {
		now := time.Now()
		view.ItemMeta = make(map[string]domain.WorkItemMeta, total)
		for _, part := range [][]domain.WorkItem{draft.Active, draft.Completed} {
			for i := range part {
				if part[i].ID == "" {
					continue
				}
				view.ItemMeta[part[i].ID] = part[i].Meta(now)
			}
		}
	}
	return view
}
