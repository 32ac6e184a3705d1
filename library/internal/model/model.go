package model

import (
	"time"

	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/google/uuid"
)

type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Genre     string    `json:"genre" db:"genre"`
	SubGenre  string    `json:"subGenre" db:"sub_genre"`
	Publisher string    `json:"publisher" db:"publisher"`
	Height    int       `json:"height" db:"height"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

type BookInput struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Genre     string `json:"genre"`
	SubGenre  string `json:"subGenre"`
	Publisher string `json:"publisher"`
	Height    int    `json:"height" validate:"gte=0"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=0"`
}

// Book builds a record from the input; quantity defaults to one copy.
func (in BookInput) Book(id uuid.UUID) Book {
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	return Book{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Genre:     in.Genre,
		SubGenre:  in.SubGenre,
		Publisher: in.Publisher,
		Height:    in.Height,
		Quantity:  qty,
	}
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Branch       string    `json:"branch,omitempty" db:"branch"`
	Role         auth.Role `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type SignUpRequest struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=6"`
	Role     auth.Role `json:"role" validate:"required,oneof=student admin"`
	AdminKey string    `json:"adminKey"`
	Branch   string    `json:"branch" validate:"required_if=Role student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    UserBrief `json:"user"`
}

type UserBrief struct {
	ID   uuid.UUID `json:"id"`
	Role auth.Role `json:"role"`
}

type StudentInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Branch   string `json:"branch" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// StudentUpdate keeps the current value for every empty field.
type StudentUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Branch   string `json:"branch"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type Statistics struct {
	TotalBooks       int64 `json:"totalBooks"`
	TotalStudents    int64 `json:"totalStudents"`
	IssuedBooks      int64 `json:"issuedBooks"`
	PendingRequests  int64 `json:"pendingBooks"`
	ReturnedRequests int64 `json:"pendingReturnedBooks"`
	ActiveLoans      int64 `json:"activeLoans"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
