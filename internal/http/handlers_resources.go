package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/busbook/busbook/internal/apiclient"
	apperrors "github.com/busbook/busbook/internal/errors"
	"github.com/busbook/busbook/internal/resources"
)

// ResourceHandlers proxies fleet-finance resource calls through the typed
// client so the gateway's token handling applies to every upstream request.
type ResourceHandlers struct {
	Svc    *resources.Client
	Logger *slog.Logger
}

func registerResourceRoutes(mux *http.ServeMux, h *ResourceHandlers, gate func(http.Handler) http.Handler) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/owners",
		List:       h.ListOwners,
		GetByID:    h.GetOwner,
		Create:     h.CreateOwner,
		Update:     h.UpdateOwner,
		Delete:     h.DeleteOwner,
		Middleware: gate,
	})
	registerCRUD(mux, crudRoutes{
		Base:       "/api/buses",
		List:       h.ListBuses,
		GetByID:    h.GetBus,
		Create:     h.CreateBus,
		Update:     h.UpdateBus,
		Delete:     h.DeleteBus,
		Middleware: gate,
	})
	registerCRUD(mux, crudRoutes{
		Base:       "/api/staff",
		List:       h.ListStaff,
		GetByID:    h.GetStaff,
		Create:     h.CreateStaff,
		Update:     h.UpdateStaff,
		Delete:     h.DeleteStaff,
		Middleware: gate,
	})
	registerCRUD(mux, crudRoutes{
		Base:       "/api/subscriptions",
		List:       h.ListSubscriptions,
		GetByID:    h.GetSubscription,
		Create:     h.CreateSubscription,
		Update:     h.UpdateSubscription,
		Delete:     h.DeleteSubscription,
		Middleware: gate,
	})

	mux.Handle("GET /api/transactions", gate(http.HandlerFunc(h.ListTransactions)))
	mux.Handle("GET /api/transactions/summary", gate(http.HandlerFunc(h.TransactionSummary)))
	mux.Handle("GET /api/transactions/{id}", gate(http.HandlerFunc(h.GetTransaction)))
	mux.Handle("POST /api/transactions", gate(http.HandlerFunc(h.CreateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}", gate(http.HandlerFunc(h.DeleteTransaction)))
}

// crudRoutes registers standard CRUD routes for a resource base path.
type crudRoutes struct {
	Base       string
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Create     http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}

// listParams reads the shared pagination envelope from the query string.
func listParams(r *http.Request) resources.ListParams {
	return resources.ListParams{
		Page:     intQuery(r, "page"),
		PageSize: intQuery(r, "page_size"),
		Search:   r.URL.Query().Get("search"),
	}
}

func intQuery(r *http.Request, name string) int {
	n := 0
	for _, c := range r.URL.Query().Get(name) {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// pathID parses the {id} path segment. A false return means the error
// response was already written.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_id",
			Err:     apperrors.ValidationField("id", "must be a UUID"),
		})
		return uuid.Nil, false
	}
	return id, true
}

// writeUpstream relays an upstream failure: the server's status and payload
// pass through verbatim, transport failures become 502.
func (h *ResourceHandlers) writeUpstream(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		WriteJSON(w, apiErr.StatusCode, apiErr.Payload())
		return
	}
	if apperrors.IsRefreshFailed(err) {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "refresh_failed", Err: err})
		return
	}
	if h.Logger != nil {
		h.Logger.ErrorContext(r.Context(), "upstream request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "upstream_unavailable", Err: err})
}

func respond[T any](h *ResourceHandlers, w http.ResponseWriter, r *http.Request, code int, v *T, err error) {
	if err != nil {
		h.writeUpstream(w, r, err)
		return
	}
	WriteJSON(w, code, v)
}

func (h *ResourceHandlers) respondDelete(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.writeUpstream(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandlers) ListOwners(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.Owners.List(r.Context(), listParams(r))
	respond(h, w, r, http.StatusOK, page, err)
}

func (h *ResourceHandlers) GetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	owner, err := h.Svc.Owners.Get(r.Context(), id)
	respond(h, w, r, http.StatusOK, owner, err)
}

func (h *ResourceHandlers) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var in resources.OwnerInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	owner, err := h.Svc.Owners.Create(r.Context(), in)
	respond(h, w, r, http.StatusCreated, owner, err)
}

func (h *ResourceHandlers) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resources.OwnerInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	owner, err := h.Svc.Owners.Update(r.Context(), id, in)
	respond(h, w, r, http.StatusOK, owner, err)
}

func (h *ResourceHandlers) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respondDelete(w, r, h.Svc.Owners.Delete(r.Context(), id))
}

func (h *ResourceHandlers) ListBuses(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.Buses.List(r.Context(), listParams(r))
	respond(h, w, r, http.StatusOK, page, err)
}

func (h *ResourceHandlers) GetBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bus, err := h.Svc.Buses.Get(r.Context(), id)
	respond(h, w, r, http.StatusOK, bus, err)
}

func (h *ResourceHandlers) CreateBus(w http.ResponseWriter, r *http.Request) {
	var in resources.BusInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	bus, err := h.Svc.Buses.Create(r.Context(), in)
	respond(h, w, r, http.StatusCreated, bus, err)
}

func (h *ResourceHandlers) UpdateBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resources.BusInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	bus, err := h.Svc.Buses.Update(r.Context(), id, in)
	respond(h, w, r, http.StatusOK, bus, err)
}

func (h *ResourceHandlers) DeleteBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respondDelete(w, r, h.Svc.Buses.Delete(r.Context(), id))
}

func (h *ResourceHandlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.Staff.List(r.Context(), listParams(r))
	respond(h, w, r, http.StatusOK, page, err)
}

func (h *ResourceHandlers) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	member, err := h.Svc.Staff.Get(r.Context(), id)
	respond(h, w, r, http.StatusOK, member, err)
}

func (h *ResourceHandlers) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var in resources.StaffInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	member, err := h.Svc.Staff.Create(r.Context(), in)
	respond(h, w, r, http.StatusCreated, member, err)
}

func (h *ResourceHandlers) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resources.StaffInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	member, err := h.Svc.Staff.Update(r.Context(), id, in)
	respond(h, w, r, http.StatusOK, member, err)
}

func (h *ResourceHandlers) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respondDelete(w, r, h.Svc.Staff.Delete(r.Context(), id))
}

func (h *ResourceHandlers) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.Subscriptions.List(r.Context(), listParams(r))
	respond(h, w, r, http.StatusOK, page, err)
}

func (h *ResourceHandlers) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sub, err := h.Svc.Subscriptions.Get(r.Context(), id)
	respond(h, w, r, http.StatusOK, sub, err)
}

func (h *ResourceHandlers) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var in resources.SubscriptionInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	sub, err := h.Svc.Subscriptions.Create(r.Context(), in)
	respond(h, w, r, http.StatusCreated, sub, err)
}

func (h *ResourceHandlers) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resources.SubscriptionInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	sub, err := h.Svc.Subscriptions.Update(r.Context(), id, in)
	respond(h, w, r, http.StatusOK, sub, err)
}

func (h *ResourceHandlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respondDelete(w, r, h.Svc.Subscriptions.Delete(r.Context(), id))
}

func (h *ResourceHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	params := resources.TransactionListParams{
		ListParams: listParams(r),
		Kind:       resources.TransactionKind(r.URL.Query().Get("kind")),
	}
	if raw := r.URL.Query().Get("bus_id"); raw != "" {
		busID, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_id",
				Err:     apperrors.ValidationField("bus_id", "must be a UUID"),
			})
			return
		}
		params.BusID = busID
	}
	page, err := h.Svc.Transactions.List(r.Context(), params)
	respond(h, w, r, http.StatusOK, page, err)
}

func (h *ResourceHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tx, err := h.Svc.Transactions.Get(r.Context(), id)
	respond(h, w, r, http.StatusOK, tx, err)
}

func (h *ResourceHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in resources.TransactionInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	tx, err := h.Svc.Transactions.Create(r.Context(), in)
	respond(h, w, r, http.StatusCreated, tx, err)
}

func (h *ResourceHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respondDelete(w, r, h.Svc.Transactions.Delete(r.Context(), id))
}

func (h *ResourceHandlers) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	busID, err := uuid.Parse(r.URL.Query().Get("bus_id"))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_id",
			Err:     apperrors.ValidationField("bus_id", "must be a UUID"),
		})
		return
	}
	summary, svcErr := h.Svc.Transactions.Summary(r.Context(), busID)
	respond(h, w, r, http.StatusOK, summary, svcErr)
}
