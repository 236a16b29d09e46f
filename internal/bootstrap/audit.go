package bootstrap

import "context"

const (
	AuditActionServerShutdown      = "SERVER_SHUTDOWN"
	AuditActionTaxStrategySwitched = "TAX_STRATEGY_SWITCHED"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
