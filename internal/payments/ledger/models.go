package ledger

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentCancelled  PaymentStatus = "cancelled"
)

type TransactionType string

const (
	TransactionCharge TransactionType = "charge"
	TransactionRefund TransactionType = "refund"
	TransactionVoid   TransactionType = "void"
)

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionFailure TransactionStatus = "failed"
	TransactionPending TransactionStatus = "pending"
)

// Payment is one row per charge attempt against a reservation. The ledger
// lives in Postgres so money movements survive independently of the
// reservation documents.
type Payment struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID    string        `gorm:"type:varchar(64);index;not null" json:"reservation_id"`
	GuestID          string        `gorm:"type:varchar(64);index;not null" json:"guest_id"`
	Amount           float64       `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency         string        `gorm:"type:varchar(3);not null" json:"currency"`
	Status           PaymentStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	Method           string        `gorm:"type:varchar(32)" json:"method"`
	Gateway          string        `gorm:"type:varchar(32);not null" json:"gateway"`
	GatewayPaymentID string        `gorm:"type:varchar(128);index" json:"gateway_payment_id,omitempty"`
	ErrorCode        string        `gorm:"type:varchar(64)" json:"error_code,omitempty"`
	ErrorMessage     string        `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:PaymentID" json:"transactions,omitempty"`
}

// Transaction records each gateway round trip for a payment.
type Transaction struct {
	ID                   string            `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID            string            `gorm:"type:uuid;index;not null" json:"payment_id"`
	Type                 TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Status               TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Amount               float64           `gorm:"type:numeric(10,2);not null" json:"amount"`
	GatewayTransactionID string            `gorm:"type:varchar(128)" json:"gateway_transaction_id,omitempty"`
	FailureReason        string            `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
}
