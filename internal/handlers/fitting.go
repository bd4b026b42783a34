// Package handlers provides the HTTP surface over pkg/fitting: a Handler
// struct holding its collaborators, one method per route, fiber.Map error
// bodies.
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Sternrassler/eve-fitting-engine/internal/metrics"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitlog"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

// Handler holds the fitting core's dependencies.
type Handler struct {
	oracle fitting.Oracle
	log    *fitlog.Logger
}

// New creates a fitting Handler over the given Oracle.
func New(oracle fitting.Oracle, log *fitlog.Logger) *Handler {
	return &Handler{oracle: oracle, log: log}
}

// calculateRequest is the wire shape of a POST /api/v1/fits/calculate body.
type calculateRequest struct {
	ShipTypeID int                    `json:"ship_type_id"`
	Modules    []moduleRequest        `json:"modules"`
	Drones     []droneRequest         `json:"drones"`
	Skills     map[string]int         `json:"skills"` // skill type_id (as string) -> level
	Damage     *damageProfileRequest  `json:"damage_profile"`
}

type moduleRequest struct {
	TypeID int             `json:"type_id"`
	Slot   string          `json:"slot"`
	Index  int             `json:"index"`
	State  string          `json:"state"`
	Charge *chargeRequest  `json:"charge"`
}

type chargeRequest struct {
	TypeID int `json:"type_id"`
}

type droneRequest struct {
	TypeID int    `json:"type_id"`
	State  string `json:"state"`
}

type damageProfileRequest struct {
	EM        float64 `json:"em"`
	Thermal   float64 `json:"thermal"`
	Kinetic   float64 `json:"kinetic"`
	Explosive float64 `json:"explosive"`
}

// CalculateFit handles POST /api/v1/fits/calculate: parse a fit, run it
// through pkg/fitting.Calculate, and report the resolved ship's hull
// attributes as a flat map.
func (h *Handler) CalculateFit(c *fiber.Ctx) (err error) {
	start := time.Now()
	defer func() {
		metrics.FittingCalculationDuration.Observe(time.Since(start).Seconds())
	}()

	var req calculateRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues("400").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid request body",
			"details": err.Error(),
		})
	}
	if req.ShipTypeID <= 0 {
		metrics.HTTPRequestsTotal.WithLabelValues("400").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ship_type_id is required"})
	}

	fit, skills, damageProfile, err := buildFit(req)
	if err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues("400").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ship, err := h.runCalculate(fit, skills, damageProfile)
	if err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues("500").Inc()
		h.log.Error("fit calculation failed", "ship_type_id", req.ShipTypeID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "calculation failed"})
	}

	observeSimulationMetrics(ship)

	metrics.HTTPRequestsTotal.WithLabelValues("200").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"hull_attributes": flattenAttributes(ship.Hull),
	})
}

// observeSimulationMetrics reports the RAH fixed-point loop's iteration
// count and the capacitor simulator's step count, when either ran: both
// are diagnostic synthetic attributes pkg/fitting only sets on the hull
// when the corresponding simulation actually executed (fitting.Calculate
// itself stays metrics-free, per its no-I/O contract).
func observeSimulationMetrics(ship *fitting.Ship) {
	if attr, ok := ship.Hull.Attributes[fitting.AttrRAHIterations]; ok && attr.Value != nil {
		metrics.FittingRAHIterations.Observe(*attr.Value)
	}
	if attr, ok := ship.Hull.Attributes[fitting.AttrCapacitorSimSteps]; ok && attr.Value != nil {
		metrics.FittingCapacitorSimSteps.Observe(*attr.Value)
	}
}

// runCalculate recovers from the core's InvariantError panics (a corrupt
// static corpus, a programmer-error-tier failure) and reports them as an
// error rather than crashing the HTTP server.
func (h *Handler) runCalculate(fit fitting.Fit, skills fitting.Skills, profile fitting.DamageProfile) (ship *fitting.Ship, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*fitting.InvariantError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	return fitting.Calculate(h.oracle, fit, skills, profile)
}

func flattenAttributes(item *fitting.Item) map[int]float64 {
	out := make(map[int]float64, len(item.Attributes))
	for id, attr := range item.Attributes {
		if attr.Value != nil {
			out[id] = *attr.Value
		}
	}
	return out
}

var errUnknownSlot = errors.New("unknown module slot")
var errUnknownState = errors.New("unknown activation state")
