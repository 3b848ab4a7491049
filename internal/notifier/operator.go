package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Operator reports faults and persistence failures to the operator's
// chat. Reporting must never take the process down, so delivery errors
// are logged and swallowed.
type Operator struct {
	sender  Sender
	adminID int64
	logger  *zap.Logger
}

// NewOperator creates an operator channel reporter
func NewOperator(sender Sender, adminID int64, logger *zap.Logger) *Operator {
	return &Operator{sender: sender, adminID: adminID, logger: logger}
}

// Report formats and delivers a message to the operator
func (o *Operator) Report(ctx context.Context, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	o.logger.Warn("operator report", zap.String("text", text))
	if o.sender == nil {
		return
	}
	if err := o.sender.Send(ctx, o.adminID, text); err != nil {
		o.logger.Error("failed to deliver operator report", zap.Error(err))
	}
}
