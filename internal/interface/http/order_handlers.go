package http

import (
	"net/http"
)

func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req productIDsRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	order, err := a.orderSvc.PlaceOrder(r.Context(), me.Username, req.ProductIDs)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	orders, err := a.orderSvc.ListOrders(r.Context(), me.Username)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	order, err := a.orderSvc.GetOrder(r.Context(), me.Username, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
