package http

import (
	"net/http"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type productIDsRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	items, err := a.cartSvc.GetCart(r.Context(), me.Username)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(items))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.cartSvc.AddToCart(r.Context(), me.Username, req.ProductID); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (a *API) handleHasCartItem(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	exists, err := a.cartSvc.HasProduct(r.Context(), me.Username, productID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "exists": exists})
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.cartSvc.UpdateQuantity(r.Context(), me.Username, productID, req.Quantity); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "quantity": req.Quantity})
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.cartSvc.RemoveItem(r.Context(), me.Username, productID); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRemoveCartItems(w http.ResponseWriter, r *http.Request) {
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

	if err := a.cartSvc.RemoveItems(r.Context(), me.Username, req.ProductIDs); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	if err := a.cartSvc.ClearCart(r.Context(), me.Username); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
