package metrics

// Label keys shared by the in-memory recorder and the OTel instruments.
const (
	LabelEndpoint = "endpoint"
	LabelEntity   = "entity"
	LabelReason   = "reason"
	LabelOutcome  = "outcome"

	OutcomeOK    = "ok"
	OutcomeError = "error"

	// Skip reasons recorded by the write path and orchestrator.
	ReasonExists  = "exists"
	ReasonPartial = "partial_data"
	ReasonFailed  = "failed"
)
