package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"nftfavorites/pkg/errs"
	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/identity"
	"nftfavorites/pkg/logger"
	"nftfavorites/pkg/otel"
	"nftfavorites/pkg/price"
	"nftfavorites/pkg/result"
)

const maxBodyBytes = 64 << 10

// textResult is the envelope of operations answering with a message.
type textResult = result.Result[string]

// itemsResult is the envelope of listFavorites.
type itemsResult = result.Result[[]favorites.Item]

type api struct {
	log    *logger.Logger
	store  *favorites.Store
	prices price.Lookup
}

func newRouter(a *api, resolver identity.Resolver, tracer trace.Tracer) *mux.Router {
	// Match on the escaped path so %2F stays inside a path variable.
	r := mux.NewRouter().UseEncodedPath()
	r.Use(traceMiddleware(tracer))
	r.HandleFunc("/healthz", a.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/nfts/{id}/price", a.getPriceHandler).Methods(http.MethodGet)

	fav := r.PathPrefix("/favorites").Subrouter()
	fav.Use(identity.Middleware(resolver, a.log))
	fav.HandleFunc("", a.addFavoriteHandler).Methods(http.MethodPost)
	fav.HandleFunc("", a.listFavoritesHandler).Methods(http.MethodGet)
	fav.HandleFunc("", a.removeFavoriteHandler).Methods(http.MethodDelete)
	fav.HandleFunc("/{symbol}", a.removeFavoriteHandler).Methods(http.MethodDelete)
	return r
}

func traceMiddleware(tracer trace.Tracer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.InjectTracing(r.Context(), tracer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *api) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// getPriceHandler returns the floor price of a collection.
// @Summary Get NFT floor price
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} textResult
// @Failure 404 {object} textResult
// @Failure 502 {object} textResult
// @Router /nfts/{id}/price [get]
func (a *api) getPriceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getPriceHandler")
	defer span.End()

	itemID, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		writeResult(ctx, w, a.log, http.StatusBadRequest, result.Err[string](err.Error()))
		return
	}
	msg, err := a.prices.GetPrice(ctx, itemID)
	if err != nil && errs.KindOf(err) == errs.KindFatal && ctx.Err() == nil {
		// Transport failures reach callers as an upstream error.
		a.log.Warn(ctx, "price transport", "error", err)
		err = errs.Upstream(price.ErrUpstream.Message, errs.WithCause(err))
	}
	reply(ctx, w, a.log, "get price", msg, err)
}

// addFavoriteHandler appends an item to the caller's favorites.
// @Summary Add favorite
// @Accept json
// @Produce json
// @Param item body favorites.Item true "Item"
// @Success 200 {object} textResult
// @Failure 400 {object} textResult
// @Security CallerIdentity
// @Router /favorites [post]
func (a *api) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addFavoriteHandler")
	defer span.End()

	id, ok := identity.FromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var item favorites.Item
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&item); err != nil {
		writeResult(ctx, w, a.log, http.StatusBadRequest, result.Err[string](err.Error()))
		return
	}
	msg, err := a.store.Add(ctx, id, item)
	reply(ctx, w, a.log, "add favorite", msg, err)
}

// removeFavoriteHandler removes every item with the symbol from the caller's favorites.
// The symbol comes from the path or, for any text including "", from ?symbol=.
// @Summary Remove favorite
// @Produce json
// @Param symbol path string true "Item symbol"
// @Success 200 {object} textResult
// @Failure 400 {object} textResult
// @Failure 404 {object} textResult
// @Security CallerIdentity
// @Router /favorites/{symbol} [delete]
// @Router /favorites [delete]
func (a *api) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeFavoriteHandler")
	defer span.End()

	id, ok := identity.FromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	symbol, err := symbolParam(r)
	if err != nil {
		writeResult(ctx, w, a.log, http.StatusBadRequest, result.Err[string](err.Error()))
		return
	}
	msg, err := a.store.Remove(ctx, id, symbol)
	reply(ctx, w, a.log, "remove favorite", msg, err)
}

// listFavoritesHandler lists the caller's favorites in insertion order.
// @Summary List favorites
// @Produce json
// @Success 200 {object} itemsResult
// @Failure 404 {object} textResult
// @Security CallerIdentity
// @Router /favorites [get]
func (a *api) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listFavoritesHandler")
	defer span.End()

	id, ok := identity.FromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	items, err := a.store.List(ctx, id)
	reply(ctx, w, a.log, "list favorites", items, err)
}

func symbolParam(r *http.Request) (string, error) {
	if raw, ok := mux.Vars(r)["symbol"]; ok {
		return url.PathUnescape(raw)
	}
	q := r.URL.Query()
	if !q.Has("symbol") {
		return "", errors.New("missing symbol")
	}
	return q.Get("symbol"), nil
}

// reply writes v as Ok, or err as Err with the status of its kind.
// Fatal errors are logged and served without detail.
func reply[T any](ctx context.Context, w http.ResponseWriter, log *logger.Logger, op string, v T, err error) {
	if err == nil {
		writeResult(ctx, w, log, http.StatusOK, result.Ok(v))
		return
	}

	status := errs.HTTPStatus(err)
	msg := err.Error()
	var e *errs.E
	switch {
	case errs.KindOf(err) == errs.KindFatal:
		log.Error(ctx, op, "error", err)
		msg = http.StatusText(status)
	case errors.As(err, &e):
		log.Debug(ctx, op, "error", e.Detail())
	}
	writeResult(ctx, w, log, status, result.Err[T](msg))
}

func writeResult[T any](ctx context.Context, w http.ResponseWriter, log *logger.Logger, status int, res result.Result[T]) {
	body, err := json.Marshal(res)
	if err != nil {
		log.Error(ctx, "encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
