package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"caregate/internal/audit"
	"caregate/internal/cache"
	"caregate/internal/erp"
	"caregate/internal/intent"
	"caregate/internal/models"
	"caregate/internal/services"
	"caregate/pkg/auth"
)

// Source values reported to callers.
const (
	SourceERP      = "erp-api"
	SourceStale    = "stale-cache"
	SourceAI       = "ai-middleware"
	SourceFallback = "fallback"
)

// State is a terminal orchestrator state. Every request ends in exactly one
// of these and is audited with it.
type State string

const (
	StateSucceeded State = "succeeded"
	StateDegraded  State = "degraded"
	StateFailed    State = "failed"
)

// Result is the explicit outcome of one assistant query. Failures are values
// here, not errors; the caller decides how to surface them.
type Result struct {
	State   State
	Intent  models.Operation
	Source  string
	Message string
	Data    any
}

// Success reports whether the caller got usable data (fresh or stale).
func (r Result) Success() bool {
	return r.State != StateFailed
}

// Upstream is the slice of the ERP client the orchestrator dispatches to.
type Upstream interface {
	BedAvailability(ctx context.Context, department string) (*models.BedAvailability, error)
	ClaimStatus(ctx context.Context, claimID string) (*models.ClaimStatus, error)
	AppointmentSlots(ctx context.Context, doctor, date string) (*models.AppointmentSlots, error)
	PatientRecords(ctx context.Context, patientID string) (*models.PatientRecord, error)
}

// Sink receives one audit record per handled request.
type Sink interface {
	Record(rec audit.Record)
}

// TTLs configures cache freshness per operation. Bed counts move fast and
// get the shortest window; patient records barely move.
type TTLs struct {
	Beds    time.Duration
	Claims  time.Duration
	Slots   time.Duration
	Records time.Duration
}

// DefaultTTLs mirrors the upstream data churn rates.
func DefaultTTLs() TTLs {
	return TTLs{
		Beds:    15 * time.Second,
		Claims:  60 * time.Second,
		Slots:   30 * time.Second,
		Records: 2 * time.Minute,
	}
}

// Orchestrator composes classification, authorization, caching and upstream
// dispatch into the end-to-end query flow. Per request it performs at most
// one upstream call, at most one cache write and exactly one audit write.
type Orchestrator struct {
	upstream Upstream
	cache    *cache.Store
	sink     Sink
	metrics  *services.Metrics
	ttls     TTLs
	now      func() time.Time
}

// New creates an orchestrator. metrics may be nil.
func New(upstream Upstream, store *cache.Store, sink Sink, metrics *services.Metrics, ttls TTLs) *Orchestrator {
	return &Orchestrator{
		upstream: upstream,
		cache:    store,
		sink:     sink,
		metrics:  metrics,
		ttls:     ttls,
		now:      time.Now,
	}
}

// plan holds everything needed to dispatch one classified operation.
type plan struct {
	key       string
	apiCalled string
	ttl       time.Duration
	scope     string
	fetch     func(ctx context.Context) (any, error)
	summarize func(v any) string
}

// Handle runs one prompt through the full query flow. scopes is the caller's
// granted capability set; operations the caller lacks a scope for fail
// without touching the upstream.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, prompt string, scopes []string) Result {
	parsed := intent.Classify(prompt)

	if parsed.Operation == models.OpUnknown {
		res := Result{
			State:   StateFailed,
			Intent:  models.OpUnknown,
			Source:  SourceAI,
			Message: "I could not map the request to a supported ERP operation.",
			Data:    map[string]any{},
		}
		o.finish(sessionID, prompt, "none", res)
		return res
	}

	p := o.planFor(parsed)

	// Fresh cache hit short-circuits authorization and upstream entirely:
	// repeated identical queries inside the TTL window are free.
	if v, ok := o.cache.Get(p.key); ok {
		o.metrics.CountCacheHit()
		res := Result{
			State:   StateSucceeded,
			Intent:  parsed.Operation,
			Source:  SourceERP,
			Message: p.summarize(v),
			Data:    v,
		}
		o.finish(sessionID, prompt, p.apiCalled, res)
		return res
	}
	o.metrics.CountCacheMiss()

	if !auth.HasScope(scopes, p.scope) {
		res := Result{
			State:   StateFailed,
			Intent:  parsed.Operation,
			Source:  SourceFallback,
			Message: "Missing scopes: " + p.scope,
			Data:    map[string]any{},
		}
		o.finish(sessionID, prompt, p.apiCalled, res)
		return res
	}

	v, err := p.fetch(ctx)
	if err != nil {
		res := o.degrade(parsed.Operation, p, err)
		o.finish(sessionID, prompt, p.apiCalled, res)
		return res
	}

	o.cache.Set(p.key, v, p.ttl)
	res := Result{
		State:   StateSucceeded,
		Intent:  parsed.Operation,
		Source:  SourceERP,
		Message: p.summarize(v),
		Data:    v,
	}
	o.finish(sessionID, prompt, p.apiCalled, res)
	return res
}

// degrade maps an upstream failure to a terminal state. Only transient
// unavailability is eligible for the stale cache; client and token errors
// propagate as failures with their own messages.
func (o *Orchestrator) degrade(op models.Operation, p plan, err error) Result {
	if erp.IsUnavailable(err) {
		o.metrics.CountUpstreamError("unavailable")
		if stale, ok := o.cache.GetStale(p.key); ok {
			o.metrics.CountStaleServe()
			log.Printf("⚠️ [GATEWAY] ERP unavailable for %s, serving stale cache entry", p.key)
			return Result{
				State:   StateDegraded,
				Intent:  op,
				Source:  SourceStale,
				Message: p.summarize(stale),
				Data:    stale,
			}
		}
		return Result{
			State:   StateFailed,
			Intent:  op,
			Source:  SourceFallback,
			Message: "ERP temporarily unavailable. Please retry shortly.",
			Data:    map[string]any{"error": err.Error()},
		}
	}

	var ce *erp.ClientError
	if errors.As(err, &ce) {
		o.metrics.CountUpstreamError("client")
		return Result{
			State:   StateFailed,
			Intent:  op,
			Source:  SourceFallback,
			Message: ce.Detail,
			Data:    map[string]any{"error": ce.Detail, "status_code": ce.StatusCode},
		}
	}

	if errors.Is(err, erp.ErrTokenAcquisition) {
		o.metrics.CountUpstreamError("token")
	}
	return Result{
		State:   StateFailed,
		Intent:  op,
		Source:  SourceFallback,
		Message: "ERP temporarily unavailable. Please retry shortly.",
		Data:    map[string]any{"error": err.Error()},
	}
}

// finish emits the single audit record for the request and counts it.
func (o *Orchestrator) finish(sessionID, prompt, apiCalled string, res Result) {
	o.metrics.CountQuery(string(res.Intent), string(res.State))

	status := "success"
	if res.State == StateFailed {
		status = "failed"
	}

	o.sink.Record(audit.Record{
		SessionID: sessionID,
		Prompt:    prompt,
		Intent:    string(res.Intent),
		APICalled: apiCalled,
		ResponsePayload: map[string]any{
			"intent":  res.Intent,
			"success": res.Success(),
			"source":  res.Source,
			"message": res.Message,
			"data":    res.Data,
		},
		Status:    status,
		Timestamp: o.now().UTC(),
	})
}

func (o *Orchestrator) planFor(parsed models.ParsedRequest) plan {
	switch parsed.Operation {
	case models.OpBeds:
		q := parsed.Beds
		return plan{
			key:       cache.BedsKey(q.Department),
			apiCalled: "GET /api/v1/beds/availability",
			ttl:       o.ttls.Beds,
			scope:     models.ScopeBedsRead,
			fetch: func(ctx context.Context) (any, error) {
				return o.upstream.BedAvailability(ctx, q.Department)
			},
			summarize: func(v any) string {
				d := v.(*models.BedAvailability)
				return fmt.Sprintf("%d %s beds are currently available.", d.Available, d.Department)
			},
		}

	case models.OpClaim:
		q := parsed.Claim
		return plan{
			key:       cache.ClaimKey(q.ClaimID),
			apiCalled: "GET /api/v1/claims/" + q.ClaimID,
			ttl:       o.ttls.Claims,
			scope:     models.ScopeClaimsRead,
			fetch: func(ctx context.Context) (any, error) {
				return o.upstream.ClaimStatus(ctx, q.ClaimID)
			},
			summarize: func(v any) string {
				d := v.(*models.ClaimStatus)
				return fmt.Sprintf("Claim %s status is %s.", d.ClaimID, d.Status)
			},
		}

	case models.OpSlots:
		q := parsed.Slots
		date := o.resolveDate(q.Date)
		return plan{
			key:       cache.SlotsKey(q.Doctor, date),
			apiCalled: "GET /api/v1/appointments/slots",
			ttl:       o.ttls.Slots,
			scope:     models.ScopeAppointmentsRead,
			fetch: func(ctx context.Context) (any, error) {
				return o.upstream.AppointmentSlots(ctx, q.Doctor, date)
			},
			summarize: func(v any) string {
				d := v.(*models.AppointmentSlots)
				return fmt.Sprintf("Found %d slots for Dr. %s on %s.", len(d.Slots), d.Doctor, d.Date)
			},
		}

	default: // models.OpRecords
		q := parsed.Records
		return plan{
			key:       cache.RecordsKey(q.PatientID),
			apiCalled: "GET /api/v1/patients/" + q.PatientID + "/records",
			ttl:       o.ttls.Records,
			scope:     models.ScopeRecordsRead,
			fetch: func(ctx context.Context) (any, error) {
				return o.upstream.PatientRecords(ctx, q.PatientID)
			},
			summarize: func(v any) string {
				d := v.(*models.PatientRecord)
				return fmt.Sprintf("Retrieved records for patient %s.", d.PatientID)
			},
		}
	}
}

// resolveDate turns the classifier's literal date token into a calendar date.
func (o *Orchestrator) resolveDate(token string) string {
	day := o.now()
	if token == "tomorrow" {
		day = day.AddDate(0, 0, 1)
	}
	return day.Format("2006-01-02")
}
