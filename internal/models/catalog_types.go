package models

// Member is the model for the 'members' table (store membership list).
type Member struct {
	ID             int64  `json:"id" db:"id"`
	Nombre         string `json:"nombre" db:"nombre"`
	Email          string `json:"email" db:"email"`
	MembershipType string `json:"membershipType" db:"membership_type"`
	JoinDate       string `json:"joinDate" db:"join_date"`
}

// Book is the model for the 'books' table (lending catalog, separate
// from sellable stock).
type Book struct {
	ID     int64  `json:"id" db:"id"`
	Titulo string `json:"titulo" db:"titulo"`
	Autor  string `json:"autor" db:"autor"`
	Genero string `json:"genero" db:"genero"`
	Estado string `json:"estado" db:"estado"`
}
