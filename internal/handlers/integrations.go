package handlers

import (
	"errors"
	"log"

	"caregate/internal/cache"
	"caregate/internal/erp"
	"caregate/internal/orchestrator"

	"github.com/gofiber/fiber/v2"
)

// IntegrationsHandler exposes the upstream resources directly, bypassing the
// intent classifier. Beds and slots share the assistant's cache (and stale
// fallback pool); claims and records are uncached passthroughs.
type IntegrationsHandler struct {
	upstream orchestrator.Upstream
	cache    *cache.Store
	ttls     orchestrator.TTLs
}

// NewIntegrationsHandler creates a new integrations handler
func NewIntegrationsHandler(upstream orchestrator.Upstream, store *cache.Store, ttls orchestrator.TTLs) *IntegrationsHandler {
	return &IntegrationsHandler{upstream: upstream, cache: store, ttls: ttls}
}

// Beds returns bed availability for a department
// GET /integrations/beds?department=
func (h *IntegrationsHandler) Beds(c *fiber.Ctx) error {
	department := c.Query("department", "ICU")
	key := cache.BedsKey(department)

	if v, ok := h.cache.Get(key); ok {
		return c.JSON(v)
	}

	data, err := h.upstream.BedAvailability(c.Context(), department)
	if err != nil {
		if erp.IsUnavailable(err) {
			if stale, ok := h.cache.GetStale(key); ok {
				log.Printf("⚠️ [INTEGRATIONS] ERP unavailable, serving stale %s", key)
				return c.JSON(stale)
			}
		}
		return upstreamError(c, err)
	}

	h.cache.Set(key, data, h.ttls.Beds)
	return c.JSON(data)
}

// Claim returns the status of an insurance claim
// GET /integrations/claims/:claim_id
func (h *IntegrationsHandler) Claim(c *fiber.Ctx) error {
	data, err := h.upstream.ClaimStatus(c.Context(), c.Params("claim_id"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(data)
}

// Slots returns appointment slots for a doctor on a date
// GET /integrations/appointments/slots?doctor=&date=
func (h *IntegrationsHandler) Slots(c *fiber.Ctx) error {
	doctor := c.Query("doctor")
	date := c.Query("date")
	if doctor == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doctor and date query parameters are required",
		})
	}

	key := cache.SlotsKey(doctor, date)
	if v, ok := h.cache.Get(key); ok {
		return c.JSON(v)
	}

	data, err := h.upstream.AppointmentSlots(c.Context(), doctor, date)
	if err != nil {
		if erp.IsUnavailable(err) {
			if stale, ok := h.cache.GetStale(key); ok {
				log.Printf("⚠️ [INTEGRATIONS] ERP unavailable, serving stale %s", key)
				return c.JSON(stale)
			}
		}
		return upstreamError(c, err)
	}

	h.cache.Set(key, data, h.ttls.Slots)
	return c.JSON(data)
}

// Records returns a patient's medical records
// GET /integrations/patients/:patient_id/records
func (h *IntegrationsHandler) Records(c *fiber.Ctx) error {
	data, err := h.upstream.PatientRecords(c.Context(), c.Params("patient_id"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(data)
}

// upstreamError maps the ERP error taxonomy onto gateway HTTP statuses:
// token acquisition 502, unavailability 503, client errors passthrough.
func upstreamError(c *fiber.Ctx, err error) error {
	if errors.Is(err, erp.ErrTokenAcquisition) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to authenticate with ERP OAuth2 server",
		})
	}

	if erp.IsUnavailable(err) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "ERP server is currently unavailable",
		})
	}

	var ce *erp.ClientError
	if errors.As(err, &ce) {
		return c.Status(ce.StatusCode).JSON(fiber.Map{
			"error": ce.Detail,
		})
	}

	log.Printf("❌ [INTEGRATIONS] Unexpected upstream error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
