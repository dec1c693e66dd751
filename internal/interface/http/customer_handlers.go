package http

import (
	"net/http"

	customeruc "example.com/shoppingcart/internal/usecase/customer"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,password"`
	Nickname string `json:"nickname" validate:"required,max=50"`
	Age      int    `json:"age" validate:"gte=0"`
}

type duplicationRequest struct {
	Username string `json:"username" validate:"required"`
}

type updateInfoRequest struct {
	Nickname string `json:"nickname" validate:"required,max=50"`
	Age      int    `json:"age" validate:"gte=0"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,password"`
}

type deleteCustomerRequest struct {
	Password string `json:"password" validate:"required"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	c, err := a.customerSvc.Register(r.Context(), customeruc.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Age:      req.Age,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCustomer(c))
}

func (a *API) handleCheckDuplication(w http.ResponseWriter, r *http.Request) {
	var req duplicationRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	unique, err := a.customerSvc.CheckDuplication(r.Context(), req.Username)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unique": unique})
}

func (a *API) handleGetMe(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	c, err := a.customerSvc.GetByUsername(r.Context(), me.Username)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(c))
}

func (a *API) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updateInfoRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	c, err := a.customerSvc.UpdateInfo(r.Context(), customeruc.UpdateInfoInput{
		Username: me.Username,
		Nickname: req.Nickname,
		Age:      req.Age,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(c))
}

func (a *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updatePasswordRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	err := a.customerSvc.UpdatePassword(r.Context(), customeruc.UpdatePasswordInput{
		Username:    me.Username,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	me := getAuthCustomer(r.Context())
	if me == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req deleteCustomerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.customerSvc.Delete(r.Context(), me.Username, req.Password); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
