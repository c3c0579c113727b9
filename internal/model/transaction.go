package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionStatusPaid    TransactionStatus = "paid"
	TransactionStatusPending TransactionStatus = "pending"
)

// Transaction is a financial record, optionally linked to a patient
// (session fees) or standing alone (rent, supplies).
type Transaction struct {
	Base
	PatientID   *uuid.UUID        `db:"patient_id" json:"patient_id,omitempty"`
	Type        TransactionType   `db:"type" json:"type"`
	Status      TransactionStatus `db:"status" json:"status"`
	AmountCents int64             `db:"amount_cents" json:"amount_cents"`
	Description string            `db:"description" json:"description"`
	OccurredAt  time.Time         `db:"occurred_at" json:"occurred_at"`
}

type CreateTransactionRequest struct {
	PatientID   *uuid.UUID        `json:"patient_id"`
	Type        TransactionType   `json:"type" binding:"required,oneof=income expense"`
	Status      TransactionStatus `json:"status" binding:"required,oneof=paid pending"`
	AmountCents int64             `json:"amount_cents" binding:"required,gt=0"`
	Description string            `json:"description" binding:"required,max=500"`
	OccurredAt  time.Time         `json:"occurred_at" binding:"required"`
}

type UpdateTransactionRequest struct {
	Status      *TransactionStatus `json:"status"`
	AmountCents *int64             `json:"amount_cents"`
	Description *string            `json:"description"`
	OccurredAt  *time.Time         `json:"occurred_at"`
}

type TransactionFilters struct {
	PatientID uuid.UUID
	Type      TransactionType
	Status    TransactionStatus
	Period    Period
}

// FinancialSummary aggregates transactions for a period.
type FinancialSummary struct {
	IncomeCents  int64 `db:"income_cents" json:"income_cents"`
	ExpenseCents int64 `db:"expense_cents" json:"expense_cents"`
	PendingCents int64 `db:"pending_cents" json:"pending_cents"`
}

// DashboardStats are the KPI aggregates shown on the staff dashboard.
type DashboardStats struct {
	ActivePatients      int              `json:"active_patients"`
	AppointmentsInRange int              `json:"appointments_in_range"`
	Financial           FinancialSummary `json:"financial"`
}
