package email

import (
	"context"
	"time"
)

// Service sends patient-facing notification mail.
type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to string, patientName string, startTime time.Time) error
	SendAppointmentCancellation(ctx context.Context, to string, patientName string, startTime time.Time, reason string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}
