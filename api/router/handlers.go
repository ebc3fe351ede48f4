package router

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	paymentsapp "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/app"
)

// MaxBodyBytes caps the webhook payload size.
const MaxBodyBytes = int64(1 << 20)

type handlers struct {
	svc    paymentsapp.Service
	logger *slog.Logger
}

func (h *handlers) home(r *http.Request) response {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("listing products", "err", err)
		return text(http.StatusInternalServerError, err.Error())
	}
	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, products); err != nil {
		h.logger.Error("rendering home page", "err", err)
		return text(http.StatusInternalServerError, err.Error())
	}
	return response{status: http.StatusOK, contentType: "text/html; charset=utf-8", body: buf.Bytes()}
}

func (h *handlers) checkout(r *http.Request) response {
	url, err := h.svc.CreateCheckout(r.Context(), r.URL.Query().Get(paymentsapp.ParamProducts), r.Host)
	if err != nil {
		return h.failure(err, "Missing products parameter")
	}
	return redirect(url)
}

func (h *handlers) portal(r *http.Request) response {
	url, err := h.svc.OpenPortal(r.Context(), r.URL.Query().Get(paymentsapp.ParamEmail))
	if err != nil {
		return h.failure(err, "Missing email parameter")
	}
	return redirect(url)
}

func (h *handlers) webhook(r *http.Request) response {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		h.logger.Error("reading webhook body", "err", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return text(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		return text(http.StatusBadRequest, "Error reading request body")
	}

	event, err := h.svc.RelayWebhook(r.Context(), body, r.Header)
	if err != nil {
		if paymentsapp.StatusFor(err) == http.StatusForbidden {
			return response{status: http.StatusForbidden}
		}
		h.logger.Error("relaying webhook", "err", err)
		return text(http.StatusInternalServerError, err.Error())
	}
	return response{status: http.StatusOK, contentType: "application/json", body: event}
}

// failure renders a classified app error. missingMsg is the body used for a missing
// required parameter.
func (h *handlers) failure(err error, missingMsg string) response {
	switch status := paymentsapp.StatusFor(err); status {
	case http.StatusBadRequest:
		return text(status, missingMsg)
	case http.StatusNotFound:
		return text(status, "Customer not found")
	default:
		h.logger.Error("payment gateway call failed", "err", err)
		return text(status, err.Error())
	}
}
