package model

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Book struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Description string    `json:"description" db:"description"`
	ISBN        string    `json:"isbn" db:"isbn"`
	Category    string    `json:"category" db:"category"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// MarshalJSON attaches the derived availability flag.
func (b Book) MarshalJSON() ([]byte, error) {
	type alias Book
	return json.Marshal(struct {
		alias
		IsAvailable bool `json:"isAvailable"`
	}{
		alias:       alias(b),
		IsAvailable: b.Quantity > 0,
	})
}

type TxStatus string

const (
	StatusBorrowed TxStatus = "borrowed"
	StatusReturned TxStatus = "returned"
)

type Transaction struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"userId" db:"user_id"`
	BookID     string     `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	Status     TxStatus   `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// TransactionDetails is the explicit join projection for display: the
// transaction plus a summary of the referenced user and book.
type TransactionDetails struct {
	Transaction
	Username    string `json:"username" db:"username"`
	BookTitle   string `json:"bookTitle" db:"book_title"`
	BookAuthor  string `json:"bookAuthor" db:"book_author"`
}

type Stats struct {
	TotalBooks        int `json:"totalBooks"`
	TotalMembers      int `json:"totalMembers"`
	ActiveBorrows     int `json:"activeBorrows"`
	TotalTransactions int `json:"totalTransactions"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"omitempty,oneof=member admin"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}

// BookRequest uses pointers for the optional fields so updates can tell an
// omitted field from an explicit zero value.
type BookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	Description *string `json:"description"`
	ISBN        *string `json:"isbn"`
	Category    *string `json:"category"`
}

type BorrowRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

type ReturnRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

type Health struct {
	Uptime    float64 `json:"uptime"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
	Database  string  `json:"database"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
