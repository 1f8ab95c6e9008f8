package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table. Profile fields are pointers
// so an unfilled profile serializes without empty-string noise.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Nombre       string `json:"nombre" db:"nombre"`

	// --- Profile Fields ---
	Telefono  *string `json:"telefono,omitempty" db:"telefono"`
	Direccion *string `json:"direccion,omitempty" db:"direccion"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
