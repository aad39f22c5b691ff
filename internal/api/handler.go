package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/diacor/portal/internal/entity"
)

// @title Diacor Portal API
// @version 1.0
// @description Self-service billing portal: plate lookup, card payments and manual payment registration
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key

//go:generate go run go.uber.org/mock/mockgen@v0.4.0 -source=handler.go -destination=../mocks/api.go -package=mocks

type Service interface {
	ClientByPlate(ctx context.Context, plate string) (entity.ClientView, error)
	CreateCardPayment(ctx context.Context, req entity.CardPaymentRequest) (entity.CardPayment, error)
	CardPaymentCallback(ctx context.Context, cb entity.CardCallback) entity.CallbackOutcome
	RecordManualPayment(ctx context.Context, p entity.ManualPayment) (entity.Settlement, error)
}

const (
	warningSettlementPending = "settlement_pending"
	errorPaymentFailed       = "payment_failed"
)

type Handler struct {
	s         Service
	v         *validator.Validate
	portalURL string
}

func NewHandler(s Service, portalURL string) *Handler {
	return &Handler{
		s:         s,
		v:         validator.New(validator.WithRequiredStructEnabled()),
		portalURL: strings.TrimRight(portalURL, "/"),
	}
}

// ClientByPlate returns the portal view for a plate
// @Summary Plate lookup
// @Description Resolves a plate to its client and returns vehicles, total debt and pending invoices.
// @Description Paid and pending amounts are computed from payment lines.
// @Tags portal
// @Produce json
// @Param plate path string true "Vehicle plate, case and whitespace insensitive"
// @Success 200 {object} entity.ClientView
// @Failure 404 {object} ErrorResponse "plate not found / account not linked"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {object} ErrorResponse "server error"
// @Router /portal/{plate} [get]
func (h *Handler) ClientByPlate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.s.ClientByPlate(ctx, chi.URLParam(r, "plate"))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrPlateNotFound):
			SendJSONErr(ctx, w, http.StatusNotFound, err, "plate not found")
		case errors.Is(err, entity.ErrAccountNotLinked):
			SendJSONErr(ctx, w, http.StatusNotFound, err, "account not linked")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "server error")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, view)
}

type CreateCardPaymentRequest struct {
	ClientID    string          `json:"clientId" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"45.10"`
	Plate       string          `json:"plate" validate:"required,max=16"`
	Description string          `json:"description" validate:"max=255"`
}

type CreateCardPaymentResponse struct {
	URL         string `json:"url"`
	OrderNumber string `json:"orderNumber"`
}

// CreateCardPayment opens a hosted card payment page
// @Summary Create card payment
// @Description Creates a payment session at the card gateway and returns the URL the payer is sent to.
// @Tags payments
// @Accept json
// @Produce json
// @Param CreateCardPaymentRequest body CreateCardPaymentRequest true "Card payment request"
// @Success 201 {object} CreateCardPaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 422 {object} ErrorResponse "Amount must be positive"
// @Failure 502 {object} ErrorResponse "Gateway rejected the payment"
// @Failure 503 {object} ErrorResponse "Gateway authentication failed"
// @Failure 500 {object} ErrorResponse "server error"
// @Router /payments/card [post]
func (h *Handler) CreateCardPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCardPaymentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	err = h.v.StructCtx(ctx, req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid request")
		return
	}

	if !req.Amount.IsPositive() {
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity,
			fmt.Errorf("not positive amount %s", req.Amount), "amount must be positive")
		return
	}

	payment, err := h.s.CreateCardPayment(ctx, entity.CardPaymentRequest{
		ClientID:    uuid.FromStringOrNil(req.ClientID),
		Amount:      req.Amount,
		Plate:       req.Plate,
		Description: req.Description,
	})
	if err != nil {
		var gwErr *entity.GatewayError

		switch {
		case errors.As(err, &gwErr):
			SendJSON(ctx, w, http.StatusBadGateway, ErrorResponse{
				Message:     gwErr.Description,
				Description: gwErr.Code,
			})
		case errors.Is(err, entity.ErrGatewayAuth):
			SendJSONErr(ctx, w, http.StatusServiceUnavailable, err, "payment gateway unavailable")
		case errors.Is(err, entity.ErrClientNotFound):
			SendJSONErr(ctx, w, http.StatusNotFound, err, "client not found")
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "amount must be positive")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "server error")
		}

		return
	}

	SendJSON(ctx, w, http.StatusCreated, CreateCardPaymentResponse{
		URL:         payment.URL,
		OrderNumber: payment.OrderNumber,
	})
}

// CardPaymentCallback receives the payer back from the card gateway
// @Summary Card payment callback
// @Description The gateway redirects the payer's browser here. code=1 settles the payment against open invoices
// @Description and redirects to the success page, anything else redirects back to the portal with the error.
// @Description The query string is not signed by the gateway.
// @Tags payments
// @Param code query string true "Gateway result code, 1 means approved"
// @Param description query string false "Gateway result description"
// @Param order query string true "Order number"
// @Param placa query string true "Vehicle plate"
// @Param amount query string false "Charged amount"
// @Success 302
// @Router /payment/tilopay/callback [get]
func (h *Handler) CardPaymentCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	out := h.s.CardPaymentCallback(ctx, entity.CardCallback{
		Code:        q.Get("code"),
		Description: q.Get("description"),
		OrderNumber: q.Get("order"),
		Plate:       q.Get("placa"),
		Amount:      q.Get("amount"),
	})

	http.Redirect(w, r, h.callbackRedirect(out), http.StatusFound)
}

func (h *Handler) callbackRedirect(out entity.CallbackOutcome) string {
	base := h.portalURL + "/portal/" + url.PathEscape(out.Plate)
	params := url.Values{}

	if !out.Approved {
		desc := out.Description
		if desc == "" {
			desc = errorPaymentFailed
		}

		params.Set("error", desc)

		return base + "?" + params.Encode()
	}

	params.Set("order", out.OrderNumber)

	if out.Warning {
		params.Set("warning", warningSettlementPending)
	}

	return base + "/payment-success?" + params.Encode()
}

type ManualPaymentRequest struct {
	ClientID  string          `json:"clientId" validate:"omitempty,uuid"`
	Plate     string          `json:"plate" validate:"required_without=ClientID,max=16"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"120.00"`
	Method    string          `json:"method" validate:"required,oneof=TRANSFER WALLET"`
	Reference string          `json:"reference" validate:"required,max=128"`
}

// RecordManualPayment registers a verified bank transfer or wallet payment
// @Summary Record manual payment
// @Description Settles a payment verified by an operator against the client's open invoices, oldest first.
// @Tags private
// @Accept json
// @Produce json
// @Param ManualPaymentRequest body ManualPaymentRequest true "Manual payment"
// @Success 201 {object} entity.Settlement
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid API key"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 422 {object} ErrorResponse "Amount must be positive with at most 2 decimals"
// @Failure 500 {object} ErrorResponse "server error"
// @Router /private/v1/payments/manual [post]
// @Security ApiKeyAuth
func (h *Handler) RecordManualPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ManualPaymentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	err = h.v.StructCtx(ctx, req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid request")
		return
	}

	err = entity.ValidatePaymentAmount(req.Amount)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "invalid amount")
		return
	}

	res, err := h.s.RecordManualPayment(ctx, entity.ManualPayment{
		ClientID:  uuid.FromStringOrNil(req.ClientID),
		Plate:     req.Plate,
		Amount:    req.Amount,
		Method:    entity.PaymentMethod(req.Method),
		Reference: req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrPlateNotFound),
			errors.Is(err, entity.ErrAccountNotLinked),
			errors.Is(err, entity.ErrClientNotFound):
			SendJSONErr(ctx, w, http.StatusNotFound, err, "client not found")
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "invalid payment")
		case errors.Is(err, entity.ErrSettlementPartial):
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "settlement partially applied")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "server error")
		}

		return
	}

	SendJSON(ctx, w, http.StatusCreated, res)
}

// HealthHandler - returns service health status.
// @Summary Health check
// @Description Health check
// @Tags health
// @Produce text/plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("OK\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "server error")
		return
	}
}
